package terse

func (exec *Execution) evalUnary(expr *UnaryExpr, right Value) (Value, error) {
	switch expr.Operator {
	case "-":
		return NewNumber(-right.ToNumber()), nil
	case "NOT":
		return NewBool(!right.Truthy()), nil
	default:
		return NewNull(), exec.errorAt(ErrRuntime, expr.Pos(), "unsupported unary operator %s", expr.Operator)
	}
}

// evalBinary short-circuits AND and OR; both always produce a boolean.
func (exec *Execution) evalBinary(expr *BinaryExpr, env *Env) (Value, error) {
	left, err := exec.evalExpression(expr.Left, env)
	if err != nil {
		return NewNull(), err
	}

	switch expr.Operator {
	case "AND":
		if !left.Truthy() {
			return NewBool(false), nil
		}
		right, err := exec.evalExpression(expr.Right, env)
		if err != nil {
			return NewNull(), err
		}
		return NewBool(right.Truthy()), nil
	case "OR":
		if left.Truthy() {
			return NewBool(true), nil
		}
		right, err := exec.evalExpression(expr.Right, env)
		if err != nil {
			return NewNull(), err
		}
		return NewBool(right.Truthy()), nil
	}

	right, err := exec.evalExpression(expr.Right, env)
	if err != nil {
		return NewNull(), err
	}
	result, ok := binaryOp(expr.Operator, left, right)
	if !ok {
		return NewNull(), exec.errorAt(ErrRuntime, expr.Pos(), "unsupported operator %s", expr.Operator)
	}
	return result, nil
}

func binaryOp(op string, left, right Value) (Value, bool) {
	switch op {
	case "+":
		if left.Kind() == KindString || right.Kind() == KindString {
			return NewString(left.String() + right.String()), true
		}
		return NewNumber(left.ToNumber() + right.ToNumber()), true
	case "-":
		return NewNumber(left.ToNumber() - right.ToNumber()), true
	case "*":
		return NewNumber(left.ToNumber() * right.ToNumber()), true
	case "/":
		return NewNumber(left.ToNumber() / right.ToNumber()), true
	case ">":
		return NewBool(left.ToNumber() > right.ToNumber()), true
	case ">=":
		return NewBool(left.ToNumber() >= right.ToNumber()), true
	case "<":
		return NewBool(left.ToNumber() < right.ToNumber()), true
	case "<=":
		return NewBool(left.ToNumber() <= right.ToNumber()), true
	case "IS", "==":
		return NewBool(left.Equal(right)), true
	case "ISNT", "!=":
		return NewBool(!left.Equal(right)), true
	default:
		return NewNull(), false
	}
}
