package main

type Category string

const (
	// CategoryNone marks the opcode pseudo-kind, which has no operand
	// category of its own.
	CategoryNone      Category = ""
	CategoryBitEnum   Category = "BitEnum"
	CategoryValueEnum Category = "ValueEnum"
	CategoryID        Category = "Id"
	CategoryLiteral   Category = "Literal"
	CategoryComposite Category = "Composite"
)

func (c Category) IsBitEnum() bool {
	return c == CategoryBitEnum
}

func (c Category) Known() bool {
	switch c {
	case CategoryBitEnum, CategoryValueEnum, CategoryID, CategoryLiteral, CategoryComposite:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	if c == CategoryNone {
		return "none"
	}
	return string(c)
}
