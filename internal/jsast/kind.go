package jsast

// Kind identifies the concrete type of a Node.
type Kind int

const (
	KindInvalid Kind = iota
	KindProgram
	KindImportDecl
	KindImportSpecifier
	KindExportNamedDecl
	KindExportSpecifier
	KindExportDefaultDecl
	KindVarDecl
	KindVarDeclarator
	KindFuncDecl
	KindClassDecl
	KindExprStmt
	KindReturnStmt
	KindThrowStmt
	KindIfStmt
	KindBlockStmt
	KindForStmt
	KindForInStmt
	KindWhileStmt
	KindDoWhileStmt
	KindTryStmt
	KindSwitchStmt
	KindSwitchCase
	KindBranchStmt
	KindEmptyStmt
	KindRawStmt
	KindFunction
	KindParam
	KindTypeAnnotation
	KindClass
	KindClassMethod
	KindClassField
	KindRawMember
	KindDecorator
	KindObjectPattern
	KindPatternProp
	KindArrayPattern
	KindAssignPattern
	KindRestElement
	KindIdentifier
	KindThisExpr
	KindSuperExpr
	KindStringLit
	KindNumberLit
	KindBoolLit
	KindNullLit
	KindRegexLit
	KindTemplateLit
	KindTaggedTemplate
	KindMemberExpr
	KindCallExpr
	KindNewExpr
	KindImportCall
	KindObjectExpr
	KindProperty
	KindSpreadElement
	KindArrayExpr
	KindFuncExpr
	KindArrowFunc
	KindClassExpr
	KindUnaryExpr
	KindUpdateExpr
	KindBinaryExpr
	KindAssignExpr
	KindConditionalExpr
	KindAwaitExpr
	KindYieldExpr
	KindParenExpr
	KindSequenceExpr
	KindTSExpr
	KindRawExpr
	KindJSXElement
	KindJSXAttr
	KindJSXSpreadAttr
	KindJSXExprContainer
	KindJSXText
)

var kindNames = [...]string{
	KindInvalid: "Invalid",
	KindProgram:           "Program",
	KindImportDecl:        "ImportDecl",
	KindImportSpecifier:   "ImportSpecifier",
	KindExportNamedDecl:   "ExportNamedDecl",
	KindExportSpecifier:   "ExportSpecifier",
	KindExportDefaultDecl: "ExportDefaultDecl",
	KindVarDecl:           "VarDecl",
	KindVarDeclarator:     "VarDeclarator",
	KindFuncDecl:          "FuncDecl",
	KindClassDecl:         "ClassDecl",
	KindExprStmt:          "ExprStmt",
	KindReturnStmt:        "ReturnStmt",
	KindThrowStmt:         "ThrowStmt",
	KindIfStmt:            "IfStmt",
	KindBlockStmt:         "BlockStmt",
	KindForStmt:           "ForStmt",
	KindForInStmt:         "ForInStmt",
	KindWhileStmt:         "WhileStmt",
	KindDoWhileStmt:       "DoWhileStmt",
	KindTryStmt:           "TryStmt",
	KindSwitchStmt:        "SwitchStmt",
	KindSwitchCase:        "SwitchCase",
	KindBranchStmt:        "BranchStmt",
	KindEmptyStmt:         "EmptyStmt",
	KindRawStmt:           "RawStmt",
	KindFunction:          "Function",
	KindParam:             "Param",
	KindTypeAnnotation:    "TypeAnnotation",
	KindClass:             "Class",
	KindClassMethod:       "ClassMethod",
	KindClassField:        "ClassField",
	KindRawMember:         "RawMember",
	KindDecorator:         "Decorator",
	KindObjectPattern:     "ObjectPattern",
	KindPatternProp:       "PatternProp",
	KindArrayPattern:      "ArrayPattern",
	KindAssignPattern:     "AssignPattern",
	KindRestElement:       "RestElement",
	KindIdentifier:        "Identifier",
	KindThisExpr:          "ThisExpr",
	KindSuperExpr:         "SuperExpr",
	KindStringLit:         "StringLit",
	KindNumberLit:         "NumberLit",
	KindBoolLit:           "BoolLit",
	KindNullLit:           "NullLit",
	KindRegexLit:          "RegexLit",
	KindTemplateLit:       "TemplateLit",
	KindTaggedTemplate:    "TaggedTemplate",
	KindMemberExpr:        "MemberExpr",
	KindCallExpr:          "CallExpr",
	KindNewExpr:           "NewExpr",
	KindImportCall:        "ImportCall",
	KindObjectExpr:        "ObjectExpr",
	KindProperty:          "Property",
	KindSpreadElement:     "SpreadElement",
	KindArrayExpr:         "ArrayExpr",
	KindFuncExpr:          "FuncExpr",
	KindArrowFunc:         "ArrowFunc",
	KindClassExpr:         "ClassExpr",
	KindUnaryExpr:         "UnaryExpr",
	KindUpdateExpr:        "UpdateExpr",
	KindBinaryExpr:        "BinaryExpr",
	KindAssignExpr:        "AssignExpr",
	KindConditionalExpr:   "ConditionalExpr",
	KindAwaitExpr:         "AwaitExpr",
	KindYieldExpr:         "YieldExpr",
	KindParenExpr:         "ParenExpr",
	KindSequenceExpr:      "SequenceExpr",
	KindTSExpr:            "TSExpr",
	KindRawExpr:           "RawExpr",
	KindJSXElement:        "JSXElement",
	KindJSXAttr:           "JSXAttr",
	KindJSXSpreadAttr:     "JSXSpreadAttr",
	KindJSXExprContainer:  "JSXExprContainer",
	KindJSXText:           "JSXText",
}

// String returns the node type name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Invalid"
	}
	return kindNames[k]
}

func (*Program) Kind() Kind           { return KindProgram }
func (*ImportDecl) Kind() Kind        { return KindImportDecl }
func (*ImportSpecifier) Kind() Kind   { return KindImportSpecifier }
func (*ExportNamedDecl) Kind() Kind   { return KindExportNamedDecl }
func (*ExportSpecifier) Kind() Kind   { return KindExportSpecifier }
func (*ExportDefaultDecl) Kind() Kind { return KindExportDefaultDecl }
func (*VarDecl) Kind() Kind           { return KindVarDecl }
func (*VarDeclarator) Kind() Kind     { return KindVarDeclarator }
func (*FuncDecl) Kind() Kind          { return KindFuncDecl }
func (*ClassDecl) Kind() Kind         { return KindClassDecl }
func (*ExprStmt) Kind() Kind          { return KindExprStmt }
func (*ReturnStmt) Kind() Kind        { return KindReturnStmt }
func (*ThrowStmt) Kind() Kind         { return KindThrowStmt }
func (*IfStmt) Kind() Kind            { return KindIfStmt }
func (*BlockStmt) Kind() Kind         { return KindBlockStmt }
func (*ForStmt) Kind() Kind           { return KindForStmt }
func (*ForInStmt) Kind() Kind         { return KindForInStmt }
func (*WhileStmt) Kind() Kind         { return KindWhileStmt }
func (*DoWhileStmt) Kind() Kind       { return KindDoWhileStmt }
func (*TryStmt) Kind() Kind           { return KindTryStmt }
func (*SwitchStmt) Kind() Kind        { return KindSwitchStmt }
func (*SwitchCase) Kind() Kind        { return KindSwitchCase }
func (*BranchStmt) Kind() Kind        { return KindBranchStmt }
func (*EmptyStmt) Kind() Kind         { return KindEmptyStmt }
func (*RawStmt) Kind() Kind           { return KindRawStmt }
func (*Function) Kind() Kind          { return KindFunction }
func (*Param) Kind() Kind             { return KindParam }
func (*TypeAnnotation) Kind() Kind    { return KindTypeAnnotation }
func (*Class) Kind() Kind             { return KindClass }
func (*ClassMethod) Kind() Kind       { return KindClassMethod }
func (*ClassField) Kind() Kind        { return KindClassField }
func (*RawMember) Kind() Kind         { return KindRawMember }
func (*Decorator) Kind() Kind         { return KindDecorator }
func (*ObjectPattern) Kind() Kind     { return KindObjectPattern }
func (*PatternProp) Kind() Kind       { return KindPatternProp }
func (*ArrayPattern) Kind() Kind      { return KindArrayPattern }
func (*AssignPattern) Kind() Kind     { return KindAssignPattern }
func (*RestElement) Kind() Kind       { return KindRestElement }
func (*Identifier) Kind() Kind        { return KindIdentifier }
func (*ThisExpr) Kind() Kind          { return KindThisExpr }
func (*SuperExpr) Kind() Kind         { return KindSuperExpr }
func (*StringLit) Kind() Kind         { return KindStringLit }
func (*NumberLit) Kind() Kind         { return KindNumberLit }
func (*BoolLit) Kind() Kind           { return KindBoolLit }
func (*NullLit) Kind() Kind           { return KindNullLit }
func (*RegexLit) Kind() Kind          { return KindRegexLit }
func (*TemplateLit) Kind() Kind       { return KindTemplateLit }
func (*TaggedTemplate) Kind() Kind    { return KindTaggedTemplate }
func (*MemberExpr) Kind() Kind        { return KindMemberExpr }
func (*CallExpr) Kind() Kind          { return KindCallExpr }
func (*NewExpr) Kind() Kind           { return KindNewExpr }
func (*ImportCall) Kind() Kind        { return KindImportCall }
func (*ObjectExpr) Kind() Kind        { return KindObjectExpr }
func (*Property) Kind() Kind          { return KindProperty }
func (*SpreadElement) Kind() Kind     { return KindSpreadElement }
func (*ArrayExpr) Kind() Kind         { return KindArrayExpr }
func (*FuncExpr) Kind() Kind          { return KindFuncExpr }
func (*ArrowFunc) Kind() Kind         { return KindArrowFunc }
func (*ClassExpr) Kind() Kind         { return KindClassExpr }
func (*UnaryExpr) Kind() Kind         { return KindUnaryExpr }
func (*UpdateExpr) Kind() Kind        { return KindUpdateExpr }
func (*BinaryExpr) Kind() Kind        { return KindBinaryExpr }
func (*AssignExpr) Kind() Kind        { return KindAssignExpr }
func (*ConditionalExpr) Kind() Kind   { return KindConditionalExpr }
func (*AwaitExpr) Kind() Kind         { return KindAwaitExpr }
func (*YieldExpr) Kind() Kind         { return KindYieldExpr }
func (*ParenExpr) Kind() Kind         { return KindParenExpr }
func (*SequenceExpr) Kind() Kind      { return KindSequenceExpr }
func (*TSExpr) Kind() Kind            { return KindTSExpr }
func (*RawExpr) Kind() Kind           { return KindRawExpr }
func (*JSXElement) Kind() Kind        { return KindJSXElement }
func (*JSXAttr) Kind() Kind           { return KindJSXAttr }
func (*JSXSpreadAttr) Kind() Kind     { return KindJSXSpreadAttr }
func (*JSXExprContainer) Kind() Kind  { return KindJSXExprContainer }
func (*JSXText) Kind() Kind           { return KindJSXText }
