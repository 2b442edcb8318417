package pddl

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Validate checks the domain for completeness before emission.
func (d *Domain) Validate() error {
	if d.Name == "" {
		return errors.New("pddl: domain name is empty")
	}
	if len(d.Predicates) == 0 {
		return fmt.Errorf("pddl: domain %s declares no predicates", d.Name)
	}
	if len(d.Actions) == 0 {
		return fmt.Errorf("pddl: domain %s declares no actions", d.Name)
	}
	for _, a := range d.Actions {
		if a.Precondition == nil || a.Effect == nil {
			return fmt.Errorf("pddl: action %s is missing a precondition or effect", a.Name)
		}
	}
	return nil
}

// Validate checks the problem for completeness before emission.
func (p *Problem) Validate() error {
	if p.Name == "" {
		return errors.New("pddl: problem name is empty")
	}
	if p.Domain == "" {
		return fmt.Errorf("pddl: problem %s names no domain", p.Name)
	}
	if len(p.Objects) == 0 {
		return fmt.Errorf("pddl: problem %s declares no objects", p.Name)
	}
	if p.Goal == nil {
		return fmt.Errorf("pddl: problem %s has no goal", p.Name)
	}
	for _, e := range p.Init {
		if !isLiteral(e) {
			return fmt.Errorf("pddl: problem %s has a non-literal init entry %s", p.Name, Render(e))
		}
	}
	return nil
}

// isLiteral accepts an Atom or a Not directly wrapping an Atom.
func isLiteral(e Expr) bool {
	switch v := e.(type) {
	case Atom:
		return true
	case Not:
		_, ok := v.Expr.(Atom)
		return ok
	default:
		return false
	}
}

func writeParams(b *strings.Builder, params []Param) {
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(" ?")
		b.WriteString(p.Name)
		b.WriteString(" - ")
		b.WriteString(p.Type)
	}
	b.WriteByte(')')
}

// WriteDomain validates the domain and serializes it in one pass.
func WriteDomain(w io.Writer, d *Domain) error {
	if err := d.Validate(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "(define (domain %s)\n", d.Name)

	if len(d.Requirements) > 0 {
		b.WriteString("(:requirements")
		for _, r := range d.Requirements {
			b.WriteByte(' ')
			b.WriteString(r)
		}
		b.WriteString(")\n")
	}

	if len(d.Types) > 0 {
		b.WriteString("(:types")
		for _, t := range d.Types {
			b.WriteString("\n  ")
			b.WriteString(t.Name)
			if t.Parent != "" {
				b.WriteString(" - ")
				b.WriteString(t.Parent)
			}
		}
		b.WriteString("\n)\n")
	}

	b.WriteString("(:predicates")
	for _, p := range d.Predicates {
		b.WriteString("\n  (")
		b.WriteString(p.Name)
		for _, param := range p.Params {
			b.WriteString(" ?")
			b.WriteString(param.Name)
			b.WriteString(" - ")
			b.WriteString(param.Type)
		}
		b.WriteByte(')')
	}
	b.WriteString("\n)\n")

	for _, a := range d.Actions {
		fmt.Fprintf(&b, "(:action %s\n", a.Name)
		b.WriteString(":parameters ")
		writeParams(&b, a.Params)
		b.WriteString("\n:precondition ")
		a.Precondition.append(&b)
		b.WriteString("\n:effect ")
		a.Effect.append(&b)
		b.WriteString("\n)\n")
	}

	b.WriteString(")\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteProblem validates the problem and serializes it in one pass.
func WriteProblem(w io.Writer, p *Problem) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "(define (problem %s)\n(:domain %s)\n", p.Name, p.Domain)

	b.WriteString("(:objects")
	for _, g := range p.Objects {
		b.WriteString("\n  ")
		b.WriteString(strings.Join(g.Names, " "))
		b.WriteString(" - ")
		b.WriteString(g.Type)
	}
	b.WriteString("\n)\n")

	b.WriteString("(:init")
	for _, e := range p.Init {
		b.WriteString("\n  ")
		e.append(&b)
	}
	b.WriteString("\n)\n")

	b.WriteString("(:goal ")
	p.Goal.append(&b)
	b.WriteString(")\n)\n")

	_, err := io.WriteString(w, b.String())
	return err
}
