package document

import (
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/graphforge/internal/typedesc"
)

// ParamDirection classifies a signature parameter.
type ParamDirection string

const (
	// ParamInput parameters flow into the graph through its Entry node.
	ParamInput ParamDirection = "input"
	// ParamOut parameters flow out through Result nodes alongside the
	// return value.
	ParamOut ParamDirection = "out"
	// ParamReturn is the single return value; a signature holds at most
	// one.
	ParamReturn ParamDirection = "return"
)

// Flags are the modifier bits a parameter or local variable carries.
type Flags struct {
	Const     bool
	Reference bool
	Editable  bool
}

// Parameter is one entry in a callable graph's ordered parameter list.
type Parameter struct {
	Name    string
	Type    typedesc.Descriptor
	Dir     ParamDirection
	Default cty.Value
	Flags   Flags
}

// LocalVariable is a graph-scoped variable declared on the signature.
// Names are unique case-insensitively.
type LocalVariable struct {
	Name    string
	Type    typedesc.Descriptor
	Default cty.Value
	Flags   Flags
}

// Signature is a callable graph's ordered parameter list plus its local
// variables. Mutated only through the signature manager.
type Signature struct {
	params []*Parameter
	locals []*LocalVariable
}

// Parameters returns the ordered parameter list.
func (s *Signature) Parameters() []*Parameter { return s.params }

// Locals returns the local variables in declaration order.
func (s *Signature) Locals() []*LocalVariable { return s.locals }

// FindParameter locates a parameter by name and direction,
// case-insensitively on the name.
func (s *Signature) FindParameter(name string, dir ParamDirection) *Parameter {
	for _, p := range s.params {
		if p.Dir == dir && strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// ReturnParameter returns the signature's return value, or nil. Return
// values are matched by role, never by name.
func (s *Signature) ReturnParameter() *Parameter {
	for _, p := range s.params {
		if p.Dir == ParamReturn {
			return p
		}
	}
	return nil
}

// FindLocal locates a local variable by case-insensitive name.
func (s *Signature) FindLocal(name string) *LocalVariable {
	for _, l := range s.locals {
		if strings.EqualFold(l.Name, name) {
			return l
		}
	}
	return nil
}

// AddParameter appends a parameter inside the transaction.
func AddParameter(tx *Txn, s *Signature, p *Parameter) {
	s.params = append(s.params, p)
	tx.Record(func() { s.params = removeParamFrom(s.params, p) })
}

// RemoveParameter detaches a parameter, keeping its position for rollback.
func RemoveParameter(tx *Txn, s *Signature, p *Parameter) {
	index := -1
	for i, candidate := range s.params {
		if candidate == p {
			index = i
			break
		}
	}
	if index == -1 {
		return
	}
	s.params = append(s.params[:index], s.params[index+1:]...)
	tx.Record(func() {
		s.params = append(s.params[:index], append([]*Parameter{p}, s.params[index:]...)...)
	})
}

// AddLocal appends a local variable inside the transaction.
func AddLocal(tx *Txn, s *Signature, l *LocalVariable) {
	s.locals = append(s.locals, l)
	tx.Record(func() { s.locals = removeLocalFrom(s.locals, l) })
}

// RemoveLocal detaches a local variable, keeping its position for rollback.
func RemoveLocal(tx *Txn, s *Signature, l *LocalVariable) {
	index := -1
	for i, candidate := range s.locals {
		if candidate == l {
			index = i
			break
		}
	}
	if index == -1 {
		return
	}
	s.locals = append(s.locals[:index], s.locals[index+1:]...)
	tx.Record(func() {
		s.locals = append(s.locals[:index], append([]*LocalVariable{l}, s.locals[index:]...)...)
	})
}

func removeParamFrom(list []*Parameter, target *Parameter) []*Parameter {
	for i, p := range list {
		if p == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func removeLocalFrom(list []*LocalVariable, target *LocalVariable) []*LocalVariable {
	for i, l := range list {
		if l == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
