package terse

// maxIndexWrite bounds how far an index assignment may pad an array.
const maxIndexWrite = 1 << 24

func (exec *Execution) assign(target Expression, value Value, env *Env) error {
	switch t := target.(type) {
	case *Identifier:
		env.Set(t.Name, value)
		return nil
	case *MemberExpr:
		obj, err := exec.evalExpression(t.Object, env)
		if err != nil {
			return err
		}
		m := obj.Map()
		if m == nil {
			return exec.errorAt(ErrAssign, t.Pos(), "member assignment expects a map, got %s", obj.Kind())
		}
		m.Set(t.Property, value)
		return nil
	case *IndexExpr:
		obj, err := exec.evalExpression(t.Object, env)
		if err != nil {
			return err
		}
		idx, err := exec.evalExpression(t.Index, env)
		if err != nil {
			return err
		}
		arr := obj.Array()
		if arr == nil {
			return exec.errorAt(ErrAssign, t.Pos(), "index assignment expects an array, got %s", obj.Kind())
		}
		i := toIndex(idx)
		if i < 0 {
			return exec.errorAt(ErrAssign, t.Pos(), "index must be >= 1, got %s", idx)
		}
		if i >= maxIndexWrite {
			return exec.errorAt(ErrLimit, t.Pos(), "index %d exceeds the maximum array size %d", i+1, maxIndexWrite)
		}
		arr.Set(i, value)
		return nil
	default:
		return exec.errorAt(ErrAssign, target.Pos(), "invalid assignment target")
	}
}
