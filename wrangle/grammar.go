package main

type Grammar struct {
	OperandKinds []OperandKind
	Instructions []Instruction
}

type OperandKind struct {
	Kind       string      `json:"kind"`
	Category   Category    `json:"category"`
	Enumerants []Enumerant `json:"enumerants"`
}

type Enumerant struct {
	Name  string    `json:"enumerant"`
	Value EnumValue `json:"value"`
}

type Instruction struct {
	Name   string `json:"opname"`
	Opcode uint32 `json:"opcode"`
}

// CollectedKind is the de-duplicated list of names for one kind, in the
// order the grammar first mentions them.
type CollectedKind struct {
	Kind     string
	Names    []string
	Category Category
}
