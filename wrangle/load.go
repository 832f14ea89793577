package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

func loadGrammar(filename string) (*Grammar, error) {
	r, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	g, err := decodeGrammar(r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	return g, nil
}

func decodeGrammar(r io.Reader) (*Grammar, error) {
	// The grammar carries a lot more than we need (operand lists, versions,
	// extension names). We only look at the two tables below, but both of
	// them must be present.
	var doc struct {
		OperandKinds *[]OperandKind `json:"operand_kinds"`
		Instructions *[]Instruction `json:"instructions"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode grammar")
	}
	switch {
	case doc.OperandKinds == nil:
		return nil, errors.Wrap(errMalformedGrammar, `missing "operand_kinds" table`)
	case doc.Instructions == nil:
		return nil, errors.Wrap(errMalformedGrammar, `missing "instructions" table`)
	}

	g := &Grammar{
		OperandKinds: *doc.OperandKinds,
		Instructions: *doc.Instructions,
	}
	for _, ok := range g.OperandKinds {
		if !ok.Category.Known() {
			logger.Warnw("unrecognized operand kind category", "kind", ok.Kind, "category", ok.Category)
		}
	}
	logger.Debugw("loaded grammar",
		"operand_kinds", len(g.OperandKinds),
		"instructions", len(g.Instructions))

	return g, nil
}
