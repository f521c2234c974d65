package gates

import "github.com/gilescope/plonky2/field"

func extAdd(a, b field.Extension) field.Extension {
	var r field.Extension
	r.Add(&a, &b)
	return r
}

func extSub(a, b field.Extension) field.Extension {
	var r field.Extension
	r.Sub(&a, &b)
	return r
}

func extMul(a, b field.Extension) field.Extension {
	var r field.Extension
	r.Mul(&a, &b)
	return r
}

func extDouble(a field.Extension) field.Extension {
	var r field.Extension
	r.Double(&a)
	return r
}
