// Package gnarkapi evaluates gate constraints inside a gnark circuit defined
// over the Goldilocks field.
package gnarkapi

import (
	"github.com/consensys/gnark/frontend"

	"github.com/gilescope/plonky2/field"
	"github.com/gilescope/plonky2/gates"
	"github.com/gilescope/plonky2/iop"
)

// API adapts a gnark frontend.API to gates.RecursiveBuilder. An extension
// value is a pair of native variables a0 + a1*u with u^2 = 7. Extension targets
// handed out by the adapter are indexes into its value table.
type API struct {
	api    frontend.API
	values [][field.D]frontend.Variable
}

var _ gates.RecursiveBuilder = (*API)(nil)

// New panics unless the native field of api is Goldilocks.
func New(api frontend.API) *API {
	field.GetFieldFromOrder(api.Compiler().Field())
	return &API{api: api}
}

func (a *API) FromVariables(v [field.D]frontend.Variable) iop.ExtensionTarget {
	id := len(a.values)
	a.values = append(a.values, v)
	return iop.ExtensionTarget{iop.VirtualTarget(id), iop.VirtualTarget(id)}
}

func (a *API) Value(et iop.ExtensionTarget) [field.D]frontend.Variable {
	return a.values[et[0].Index]
}

func (a *API) AssertIsZero(et iop.ExtensionTarget) {
	for _, v := range a.Value(et) {
		a.api.AssertIsEqual(v, 0)
	}
}

func (a *API) ZeroExtension() iop.ExtensionTarget {
	return a.ConstantExtension(field.ExtensionZero())
}

func (a *API) OneExtension() iop.ExtensionTarget {
	return a.ConstantExtension(field.ExtensionOne())
}

func (a *API) TwoExtension() iop.ExtensionTarget {
	return a.ConstantExtension(field.Embed(field.NewElement(2)))
}

func (a *API) ConstantExtension(c field.Extension) iop.ExtensionTarget {
	return a.FromVariables([field.D]frontend.Variable{c.A0.Uint64(), c.A1.Uint64()})
}

func (a *API) AddExtension(x, y iop.ExtensionTarget) iop.ExtensionTarget {
	vx, vy := a.Value(x), a.Value(y)
	return a.FromVariables([field.D]frontend.Variable{
		a.api.Add(vx[0], vy[0]),
		a.api.Add(vx[1], vy[1]),
	})
}

func (a *API) SubExtension(x, y iop.ExtensionTarget) iop.ExtensionTarget {
	vx, vy := a.Value(x), a.Value(y)
	return a.FromVariables([field.D]frontend.Variable{
		a.api.Sub(vx[0], vy[0]),
		a.api.Sub(vx[1], vy[1]),
	})
}

func (a *API) mul(x, y [field.D]frontend.Variable) [field.D]frontend.Variable {
	hi := a.api.Mul(x[1], y[1])
	return [field.D]frontend.Variable{
		a.api.MulAcc(a.api.Mul(hi, 7), x[0], y[0]),
		a.api.MulAcc(a.api.Mul(x[0], y[1]), x[1], y[0]),
	}
}

func (a *API) MulExtension(x, y iop.ExtensionTarget) iop.ExtensionTarget {
	return a.FromVariables(a.mul(a.Value(x), a.Value(y)))
}

func (a *API) MulAddExtension(x, y, z iop.ExtensionTarget) iop.ExtensionTarget {
	return a.AddExtension(a.MulExtension(x, y), z)
}

func (a *API) MulSubExtension(x, y, z iop.ExtensionTarget) iop.ExtensionTarget {
	return a.SubExtension(a.MulExtension(x, y), z)
}

func (a *API) ScalarMulAddExtension(k field.Element, x, y iop.ExtensionTarget) iop.ExtensionTarget {
	vx, vy := a.Value(x), a.Value(y)
	kv := k.Uint64()
	return a.FromVariables([field.D]frontend.Variable{
		a.api.Add(a.api.Mul(vx[0], kv), vy[0]),
		a.api.Add(a.api.Mul(vx[1], kv), vy[1]),
	})
}

func (a *API) SelectExtGeneralized(b, x, y iop.ExtensionTarget) iop.ExtensionTarget {
	return a.AddExtension(a.MulExtension(b, a.SubExtension(x, y)), y)
}
