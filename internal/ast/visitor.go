package ast

// Visitor is implemented by every AST pass. Visit* runs
// pre-order and its bool return says whether to descend into children;
// EndVisit* runs post-order and is always called regardless of the Visit*
// result. Every analysis pass in this repository (currently just
// internal/infer.Inferer) implements this interface, usually by embedding
// BaseVisitor and overriding only the variants it cares about.
type Visitor interface {
	VisitExpressions(n *Expressions) bool
	EndVisitExpressions(n *Expressions)

	VisitNilLiteral(n *NilLiteral) bool
	EndVisitNilLiteral(n *NilLiteral)

	VisitBoolLiteral(n *BoolLiteral) bool
	EndVisitBoolLiteral(n *BoolLiteral)

	VisitIntLiteral(n *IntLiteral) bool
	EndVisitIntLiteral(n *IntLiteral)

	VisitFloatLiteral(n *FloatLiteral) bool
	EndVisitFloatLiteral(n *FloatLiteral)

	VisitCharLiteral(n *CharLiteral) bool
	EndVisitCharLiteral(n *CharLiteral)

	VisitVar(n *Var) bool
	EndVisitVar(n *Var)

	VisitClassDef(n *ClassDef) bool
	EndVisitClassDef(n *ClassDef)

	VisitDef(n *Def) bool
	EndVisitDef(n *Def)

	VisitCall(n *Call) bool
	EndVisitCall(n *Call)

	VisitIf(n *If) bool
	EndVisitIf(n *If)

	VisitWhile(n *While) bool
	EndVisitWhile(n *While)

	VisitAssign(n *Assign) bool
	EndVisitAssign(n *Assign)

	VisitBlock(n *Block) bool
	EndVisitBlock(n *Block)

	VisitControlExit(n *ControlExit) bool
	EndVisitControlExit(n *ControlExit)
}

// BaseVisitor supplies the default "descend into everything, do nothing on
// the way out" behavior. Passes embed it and override only the node kinds
// they care about instead of restating every case.
type BaseVisitor struct{}

func (BaseVisitor) VisitExpressions(*Expressions) bool  { return true }
func (BaseVisitor) EndVisitExpressions(*Expressions)    {}
func (BaseVisitor) VisitNilLiteral(*NilLiteral) bool    { return true }
func (BaseVisitor) EndVisitNilLiteral(*NilLiteral)      {}
func (BaseVisitor) VisitBoolLiteral(*BoolLiteral) bool  { return true }
func (BaseVisitor) EndVisitBoolLiteral(*BoolLiteral)    {}
func (BaseVisitor) VisitIntLiteral(*IntLiteral) bool    { return true }
func (BaseVisitor) EndVisitIntLiteral(*IntLiteral)      {}
func (BaseVisitor) VisitFloatLiteral(*FloatLiteral) bool { return true }
func (BaseVisitor) EndVisitFloatLiteral(*FloatLiteral)  {}
func (BaseVisitor) VisitCharLiteral(*CharLiteral) bool  { return true }
func (BaseVisitor) EndVisitCharLiteral(*CharLiteral)    {}
func (BaseVisitor) VisitVar(*Var) bool                  { return true }
func (BaseVisitor) EndVisitVar(*Var)                    {}
func (BaseVisitor) VisitClassDef(*ClassDef) bool        { return true }
func (BaseVisitor) EndVisitClassDef(*ClassDef)          {}
func (BaseVisitor) VisitDef(*Def) bool                  { return true }
func (BaseVisitor) EndVisitDef(*Def)                    {}
func (BaseVisitor) VisitCall(*Call) bool                { return true }
func (BaseVisitor) EndVisitCall(*Call)                  {}
func (BaseVisitor) VisitIf(*If) bool                    { return true }
func (BaseVisitor) EndVisitIf(*If)                      {}
func (BaseVisitor) VisitWhile(*While) bool              { return true }
func (BaseVisitor) EndVisitWhile(*While)                {}
func (BaseVisitor) VisitAssign(*Assign) bool            { return true }
func (BaseVisitor) EndVisitAssign(*Assign)              {}
func (BaseVisitor) VisitBlock(*Block) bool              { return true }
func (BaseVisitor) EndVisitBlock(*Block)                {}
func (BaseVisitor) VisitControlExit(*ControlExit) bool  { return true }
func (BaseVisitor) EndVisitControlExit(*ControlExit)    {}
