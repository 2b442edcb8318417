// Package pddl models planning domain and problem documents as explicit
// syntax trees and serializes them to the parenthesized exchange format
// the external planner consumes.
//
// The document model is assembled first and written in a single final
// pass, so fact derivation stays independent of text formatting and a
// document can be validated for completeness before anything is emitted.
// The keyword and parenthesization conventions follow the planner's
// contract verbatim; nothing in the syntax is redesigned here.
package pddl

import (
	"strings"
)

// Expr is a node of the condition/effect expression tree. The concrete
// node types are Atom, Not, And and Or.
type Expr interface {
	append(b *strings.Builder)
}

// Atom is a single predicate application, e.g. (at pt3pt1 0 car1).
// Arguments are already-bound object names or ?variables.
type Atom struct {
	Name string
	Args []string
}

func (a Atom) append(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(a.Name)
	for _, arg := range a.Args {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	b.WriteByte(')')
}

// Not negates an expression.
type Not struct {
	Expr Expr
}

func (n Not) append(b *strings.Builder) {
	b.WriteString("(not ")
	n.Expr.append(b)
	b.WriteByte(')')
}

// And is a conjunction.
type And struct {
	Exprs []Expr
}

func (a And) append(b *strings.Builder) {
	b.WriteString("(and")
	for _, e := range a.Exprs {
		b.WriteByte(' ')
		e.append(b)
	}
	b.WriteByte(')')
}

// Or is a disjunction.
type Or struct {
	Exprs []Expr
}

func (o Or) append(b *strings.Builder) {
	b.WriteString("(or")
	for _, e := range o.Exprs {
		b.WriteByte(' ')
		e.append(b)
	}
	b.WriteByte(')')
}

// Render returns the expression in exchange-format text.
func Render(e Expr) string {
	var b strings.Builder
	e.append(&b)
	return b.String()
}

// Param is a typed variable of a predicate or action schema.
type Param struct {
	Name string // without the leading '?'
	Type string
}

// Type declares an object type, optionally derived from a parent type.
type Type struct {
	Name   string
	Parent string // empty for root types
}

// Predicate declares one predicate of the vocabulary.
type Predicate struct {
	Name   string
	Params []Param
}

// Action is a parameterized action schema.
type Action struct {
	Name         string
	Params       []Param
	Precondition Expr
	Effect       Expr
}

// Domain is a complete domain document: type hierarchy, predicate
// vocabulary and action schemas.
type Domain struct {
	Name         string
	Requirements []string
	Types        []Type
	Predicates   []Predicate
	Actions      []Action
}

// ObjectGroup declares the named objects of one type.
type ObjectGroup struct {
	Type  string
	Names []string
}

// Problem is a complete problem document: object declarations, initial
// facts and the goal condition. Init entries must be an Atom or a
// Not-wrapped Atom.
type Problem struct {
	Name    string
	Domain  string
	Objects []ObjectGroup
	Init    []Expr
	Goal    Expr
}
