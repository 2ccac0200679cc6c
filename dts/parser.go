package dts

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Parse parses one declaration artifact. Parsing is tolerant: statements
// outside the modeled subset (imports, functions, consts) are skipped, and
// unparsable type expressions degrade to Name nodes carrying their raw
// text. An error is returned only for input that is not a declaration file
// at all (for example, truncated braces at top level).
func Parse(name, src string) (*File, error) {
	p := &parser{toks: scan(src)}
	file := &File{Name: name}

	for !p.atEOF() {
		decl, err := p.parseTopLevel()
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		if decl != nil {
			file.Decls = append(file.Decls, decl)
		}
	}
	return file, nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) cur() token  { return p.toks[p.i] }
func (p *parser) atEOF() bool { return p.toks[p.i].Kind == tokEOF }

func (p *parser) advance() token {
	tok := p.toks[p.i]
	if tok.Kind != tokEOF {
		p.i++
	}
	return tok
}

// at reports whether the current token is the given identifier or punctuation.
func (p *parser) at(text string) bool { return p.cur().Text == text && p.cur().Kind != tokString }

// accept consumes the current token if it matches text.
func (p *parser) accept(text string) bool {
	if p.at(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(text string) error {
	if p.accept(text) {
		return nil
	}
	return errors.Newf("expected %q, found %q at offset %d", text, p.cur().Text, p.cur().Pos)
}

// parseTopLevel parses one top-level statement, returning nil for
// statements outside the modeled subset.
func (p *parser) parseTopLevel() (Decl, error) {
	// Modifiers carry no meaning for type extraction.
	for p.accept("export") || p.accept("declare") || p.accept("default") || p.accept("abstract") {
	}

	tok := p.cur()
	if tok.Kind != tokIdent {
		// Stray punctuation (e.g. a lone semicolon); skip it.
		p.advance()
		return nil, nil
	}

	switch tok.Text {
	case "interface":
		p.advance()
		return p.parseInterface()
	case "class":
		p.advance()
		return p.parseClass()
	case "enum":
		p.advance()
		return p.parseEnum()
	case "const":
		p.advance()
		if p.at("enum") {
			p.advance()
			return p.parseEnum()
		}
		p.skipStatement()
		return nil, nil
	case "type":
		p.advance()
		return p.parseAlias()
	case "import":
		p.advance()
		p.skipStatement()
		return nil, nil
	case "function", "let", "var":
		p.advance()
		p.skipStatement()
		return nil, nil
	case "namespace", "module":
		p.advance()
		p.skipNamespace()
		return nil, nil
	default:
		p.advance()
		p.skipStatement()
		return nil, nil
	}
}

func (p *parser) parseInterface() (Decl, error) {
	decl := &Interface{}
	if p.cur().Kind == tokIdent {
		decl.Name = p.advance().Text
	}
	p.skipTypeParams()

	if p.accept("extends") {
		for {
			if p.cur().Kind != tokIdent {
				break
			}
			decl.Extends = append(decl.Extends, p.parseDottedName())
			p.skipTypeArgs()
			if !p.accept(",") {
				break
			}
		}
	}

	if err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.atEOF() && !p.at("}") {
		prop, ok := p.parseInterfaceMember()
		if ok {
			decl.Props = append(decl.Props, prop)
		}
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseInterfaceMember parses one interface body member. Call-signature
// members become Func-typed properties; index signatures are skipped.
func (p *parser) parseInterfaceMember() (Prop, bool) {
	var prop Prop
	prop.Readonly = p.accept("readonly")

	if p.at("[") {
		p.skipBalanced("[", "]")
		p.skipMemberTerminator()
		return prop, false
	}

	tok := p.cur()
	if tok.Kind != tokIdent && tok.Kind != tokString {
		p.advance()
		return prop, false
	}
	prop.Name = p.advance().Text
	prop.Optional = p.accept("?")

	switch {
	case p.at("("):
		// Method-style member: the signature is not modeled.
		p.skipBalanced("(", ")")
		if p.accept(":") {
			p.parseType()
		}
		prop.Type = &Func{}
	case p.accept(":"):
		prop.Type = p.parseType()
	default:
		prop.Type = nil
	}

	p.skipMemberTerminator()
	return prop, true
}

func (p *parser) parseClass() (Decl, error) {
	decl := &Class{}
	if p.cur().Kind == tokIdent {
		decl.Name = p.advance().Text
	}
	p.skipTypeParams()

	if p.accept("extends") {
		decl.Extends = p.parseDottedName()
		p.skipTypeArgs()
	}
	if p.accept("implements") {
		for p.cur().Kind == tokIdent {
			p.parseDottedName()
			p.skipTypeArgs()
			if !p.accept(",") {
				break
			}
		}
	}

	if err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.atEOF() && !p.at("}") {
		p.parseClassMember(decl)
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseClassMember(decl *Class) {
	for p.accept("public") || p.accept("private") || p.accept("protected") ||
		p.accept("declare") || p.accept("abstract") || p.accept("override") {
	}
	static := p.accept("static")
	readonly := p.accept("readonly")

	if p.at("[") {
		p.skipBalanced("[", "]")
		p.skipMemberTerminator()
		return
	}

	// Accessors: getters read as properties, setters carry no new shape.
	if p.at("get") && p.peekIsIdentThen("(") {
		p.advance()
		name := p.advance().Text
		p.skipBalanced("(", ")")
		var typ Type
		if p.accept(":") {
			typ = p.parseType()
		}
		decl.Props = append(decl.Props, Prop{Name: name, Type: typ, Readonly: true})
		p.skipMemberTerminator()
		return
	}
	if p.at("set") && p.peekIsIdentThen("(") {
		p.advance()
		p.advance()
		p.skipBalanced("(", ")")
		p.skipMemberTerminator()
		return
	}

	if p.at("constructor") {
		p.advance()
		params := p.parseParams()
		decl.Ctors = append(decl.Ctors, params)
		p.skipMemberTerminator()
		return
	}

	tok := p.cur()
	if tok.Kind != tokIdent && tok.Kind != tokString {
		p.advance()
		return
	}
	name := p.advance().Text
	optional := p.accept("?")
	p.skipTypeParams()

	if p.at("(") {
		m := Method{Name: name, Params: p.parseParams()}
		if p.accept(":") {
			m.Return = p.parseType()
		}
		if static {
			decl.Statics = append(decl.Statics, m)
		} else {
			decl.Methods = append(decl.Methods, m)
		}
		p.skipMemberTerminator()
		return
	}

	var typ Type
	if p.accept(":") {
		typ = p.parseType()
	}
	if p.accept("=") {
		p.skipStatement()
	} else {
		p.skipMemberTerminator()
	}
	decl.Props = append(decl.Props, Prop{Name: name, Type: typ, Optional: optional, Readonly: readonly})
}

func (p *parser) parseParams() []Param {
	var params []Param
	if !p.accept("(") {
		return params
	}
	for !p.atEOF() && !p.at(")") {
		var param Param
		param.Rest = p.accept("...")
		if p.cur().Kind == tokIdent {
			param.Name = p.advance().Text
		}
		param.Optional = p.accept("?")
		if p.accept(":") {
			param.Type = p.parseType()
		}
		if p.accept("=") {
			p.skipDefaultValue()
		}
		params = append(params, param)
		if !p.accept(",") {
			break
		}
	}
	p.accept(")")
	return params
}

func (p *parser) parseEnum() (Decl, error) {
	decl := &Enum{}
	if p.cur().Kind == tokIdent {
		decl.Name = p.advance().Text
	}
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.atEOF() && !p.at("}") {
		tok := p.cur()
		if tok.Kind == tokIdent || tok.Kind == tokString {
			decl.Members = append(decl.Members, p.advance().Text)
			if p.accept("=") {
				p.skipEnumValue()
			}
			p.accept(",")
			continue
		}
		p.advance()
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseAlias() (Decl, error) {
	decl := &Alias{}
	if p.cur().Kind == tokIdent {
		decl.Name = p.advance().Text
	}

	if p.accept("<") {
		depth := 1
		expectName := true
		for !p.atEOF() && depth > 0 {
			tok := p.advance()
			switch tok.Text {
			case "<":
				depth++
			case ">":
				depth--
			case ",":
				if depth == 1 {
					expectName = true
				}
			default:
				if depth == 1 && expectName && tok.Kind == tokIdent {
					decl.TypeParams = append(decl.TypeParams, tok.Text)
					expectName = false
				}
			}
		}
	}

	if err := p.expect("="); err != nil {
		return nil, err
	}
	decl.RHS = p.parseType()
	p.accept(";")
	return decl, nil
}

// parseType parses a full type expression. It never fails: unexpected
// tokens degrade to Name nodes.
func (p *parser) parseType() Type {
	p.accept("|") // leading pipe in multi-line unions

	first := p.parseIntersection()
	if !p.at("|") {
		return first
	}

	union := &Union{Variants: []Type{first}}
	for p.accept("|") {
		union.Variants = append(union.Variants, p.parseIntersection())
	}
	return union
}

// parseIntersection parses A & B & ... chains. Intersections have no Rust
// shape here; the first operand wins and the rest are consumed.
func (p *parser) parseIntersection() Type {
	first := p.parsePostfix()
	for p.accept("&") {
		p.parsePostfix()
	}
	return first
}

func (p *parser) parsePostfix() Type {
	t := p.parsePrimary()
	for p.at("[") {
		// T[] is an array; T["k"] indexed access degrades to the base.
		if p.toks[p.i+1].Text == "]" {
			p.advance()
			p.advance()
			t = &Array{Elem: t}
			continue
		}
		p.skipBalanced("[", "]")
	}
	return t
}

func (p *parser) parsePrimary() Type {
	tok := p.cur()

	switch {
	case tok.Kind == tokString:
		p.advance()
		return &StringLit{Value: tok.Text}

	case tok.Kind == tokNumber:
		p.advance()
		return &NumberLit{Text: tok.Text}

	case p.at("("):
		if p.parenStartsArrow() {
			p.skipBalanced("(", ")")
			p.accept("=>")
			p.parseType()
			return &Func{}
		}
		p.advance()
		inner := p.parseType()
		p.accept(")")
		return inner

	case p.at("["):
		p.advance()
		tuple := &Tuple{}
		for !p.atEOF() && !p.at("]") {
			tuple.Elems = append(tuple.Elems, p.parseType())
			if !p.accept(",") {
				break
			}
		}
		p.accept("]")
		return tuple

	case p.at("{"):
		p.skipBalanced("{", "}")
		return &Object{}

	case p.at("new"):
		p.advance()
		p.skipBalanced("(", ")")
		p.accept("=>")
		p.parseType()
		return &Func{}

	case p.at("typeof"):
		p.advance()
		return &TypeOf{Target: p.parseDottedName()}

	case tok.Kind == tokIdent:
		name := p.parseDottedName()
		if p.at("<") {
			args := p.parseTypeArgs()
			if name == "Array" && len(args) == 1 {
				return &Array{Elem: args[0]}
			}
			return &Generic{Base: name, Args: args}
		}
		return &Name{Text: name}

	default:
		// Unknown construct: degrade to a raw Name so lowering stays total.
		p.advance()
		return &Name{Text: tok.Text}
	}
}

func (p *parser) parseTypeArgs() []Type {
	var args []Type
	if !p.accept("<") {
		return args
	}
	for !p.atEOF() && !p.at(">") {
		args = append(args, p.parseType())
		if !p.accept(",") {
			break
		}
	}
	p.accept(">")
	return args
}

func (p *parser) parseDottedName() string {
	var b strings.Builder
	for {
		if p.cur().Kind != tokIdent {
			break
		}
		b.WriteString(p.advance().Text)
		if !p.at(".") || p.toks[p.i+1].Kind != tokIdent {
			break
		}
		p.advance()
		b.WriteByte('.')
	}
	return b.String()
}

// parenStartsArrow reports whether the '(' at the current position opens a
// function type's parameter list, i.e. the matching ')' is followed by '=>'.
func (p *parser) parenStartsArrow() bool {
	depth := 0
	for i := p.i; p.toks[i].Kind != tokEOF; i++ {
		switch p.toks[i].Text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return p.toks[i+1].Text == "=>"
			}
		}
	}
	return false
}

func (p *parser) peekIsIdentThen(punct string) bool {
	if p.i+2 >= len(p.toks) {
		return false
	}
	return p.toks[p.i+1].Kind == tokIdent && p.toks[p.i+2].Text == punct
}

// skipTypeParams consumes a <...> type parameter list if present.
func (p *parser) skipTypeParams() {
	if p.at("<") {
		p.skipBalanced("<", ">")
	}
}

// skipTypeArgs consumes applied type arguments if present.
func (p *parser) skipTypeArgs() {
	if p.at("<") {
		p.skipBalanced("<", ">")
	}
}

func (p *parser) skipBalanced(open, close string) {
	if !p.accept(open) {
		return
	}
	depth := 1
	for !p.atEOF() && depth > 0 {
		tok := p.advance()
		switch tok.Text {
		case open:
			depth++
		case close:
			depth--
		}
	}
}

// skipStatement consumes tokens through the next top-level semicolon,
// balancing braces so object bodies do not end the statement early.
func (p *parser) skipStatement() {
	depth := 0
	for !p.atEOF() {
		tok := p.cur()
		switch tok.Text {
		case "{", "(", "[":
			depth++
		case "}", ")", "]":
			if depth == 0 {
				return
			}
			depth--
		case ";":
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *parser) skipNamespace() {
	for !p.atEOF() && !p.at("{") {
		p.advance()
	}
	p.skipBalanced("{", "}")
}

func (p *parser) skipMemberTerminator() {
	for p.accept(";") || p.accept(",") {
	}
}

// skipDefaultValue consumes a parameter default expression up to the next
// top-level comma or closing paren.
func (p *parser) skipDefaultValue() {
	depth := 0
	for !p.atEOF() {
		tok := p.cur()
		switch tok.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth == 0 {
				return
			}
			depth--
		case ",":
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

// skipEnumValue consumes an enum member initializer up to the next comma
// or closing brace.
func (p *parser) skipEnumValue() {
	for !p.atEOF() && !p.at(",") && !p.at("}") {
		p.advance()
	}
}
