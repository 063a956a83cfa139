package analyze

import (
	"go/constant"
	"go/types"
	"path/filepath"
)

func isEmptyStruct(t types.Type) bool {
	st, ok := t.Underlying().(*types.Struct)
	return ok && st.NumFields() == 0
}

func isErrorType(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func constantInt(c *types.Const) (int64, bool) {
	v := c.Val()
	if v.Kind() != constant.Int {
		return 0, false
	}

	return constant.Int64Val(v)
}

func dirOf(file string) string {
	return filepath.Dir(file)
}
