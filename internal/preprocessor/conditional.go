package preprocessor

import "github.com/occa-go/okl/internal/token"

func (p *Preprocessor) directiveIf(origin token.FileOrigin) {
	if p.skipping() {
		p.skipLine()
		p.conds = append(p.conds, condFrame{state: condSkipping, satisfied: true, inert: true, origin: origin})
		return
	}
	toks := p.collectLineTokens()
	taking := p.evalDirectiveExpr(toks, origin).Truthy()
	st := condSkipping
	if taking {
		st = condTaking
	}
	p.conds = append(p.conds, condFrame{state: st, satisfied: taking, origin: origin})
}

func (p *Preprocessor) directiveIfdefFamily(origin token.FileOrigin, wantDefined bool) {
	if p.skipping() {
		p.skipLine()
		p.conds = append(p.conds, condFrame{state: condSkipping, satisfied: true, inert: true, origin: origin})
		return
	}
	nameTok := p.lex.NextToken()
	p.skipLine()
	defined := specialMacros[nameTok.Text]
	if !defined {
		_, defined = p.lookupMacro(nameTok.Text)
	}
	taking := defined == wantDefined
	st := condSkipping
	if taking {
		st = condTaking
	}
	p.conds = append(p.conds, condFrame{state: st, satisfied: taking, origin: origin})
}

func (p *Preprocessor) directiveElif(origin token.FileOrigin) {
	if len(p.conds) == 0 {
		p.reportErr(origin, "#elif without a matching #if")
		p.skipLine()
		return
	}
	top := &p.conds[len(p.conds)-1]
	if top.sawElse {
		p.reportErr(origin, "#elif after #else")
	}
	if top.inert || top.satisfied {
		p.skipLine()
		top.state = condSkipping
		return
	}
	toks := p.collectLineTokens()
	taking := p.evalDirectiveExpr(toks, origin).Truthy()
	if taking {
		top.state = condTaking
		top.satisfied = true
	} else {
		top.state = condSkipping
	}
}

func (p *Preprocessor) directiveElse(origin token.FileOrigin) {
	if len(p.conds) == 0 {
		p.reportErr(origin, "#else without a matching #if")
		p.skipLine()
		return
	}
	top := &p.conds[len(p.conds)-1]
	if top.sawElse {
		p.reportErr(origin, "duplicate #else")
	}
	top.sawElse = true
	p.skipLine()
	if top.inert || top.satisfied {
		top.state = condSkipping
	} else {
		top.state = condTaking
		top.satisfied = true
	}
}

func (p *Preprocessor) directiveEndif(origin token.FileOrigin) {
	if len(p.conds) == 0 {
		p.reportErr(origin, "#endif without a matching #if")
		p.skipLine()
		return
	}
	p.skipLine()
	p.conds = p.conds[:len(p.conds)-1]
}
