package main

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// opcodeKind is the pseudo-kind that instruction names are collected under.
const opcodeKind = "Op"

// opnamePrefix starts every instruction name in the grammar.
const opnamePrefix = "Op"

// requestedKinds is the list of kinds we generate lookups for, in output
// order. Adding a kind here is the only way to generate another lookup.
var requestedKinds = []string{
	"AddressingModel",
	"BuiltIn",
	"Capability",
	"Decoration",
	"Dim",
	"ExecutionMode",
	"ExecutionModel",
	"ImageFormat",
	"MemoryModel",
	"StorageClass",
	"ImageOperands",
	"FPRoundingMode",
	opcodeKind,
}

// dedupeFirstSeen returns the payload of every item whose key didn't appear
// on an earlier item, in their original order. The payload function is
// only called for items that are kept.
func dedupeFirstSeen[T any, K comparable, V any](items []T, key func(T) K, payload func(T) (V, error)) ([]V, error) {
	seen := make(map[K]struct{}, len(items))
	ret := make([]V, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		v, err := payload(item)
		if err != nil {
			return nil, err
		}
		seen[k] = struct{}{}
		ret = append(ret, v)
	}
	return ret, nil
}

func collectEnum(g *Grammar, kind string) (CollectedKind, error) {
	var operands *OperandKind
	for i := range g.OperandKinds {
		if g.OperandKinds[i].Kind == kind {
			operands = &g.OperandKinds[i]
			break
		}
	}
	if operands == nil {
		return CollectedKind{}, errors.WithHint(
			errors.Wrapf(errKindNotFound, "%q", kind),
			"the grammar may be older than the list of kinds this tool generates",
		)
	}

	// Some tables give several names to the same value, so we keep only
	// the first of each.
	names, err := dedupeFirstSeen(operands.Enumerants,
		func(e Enumerant) EnumValue { return e.Value },
		func(e Enumerant) (string, error) { return e.Name, nil },
	)
	if err != nil {
		return CollectedKind{}, err
	}

	if skipped := len(operands.Enumerants) - len(names); skipped > 0 {
		logger.Debugw("skipped duplicate enumerant values", "kind", kind, "skipped", skipped)
	}

	return CollectedKind{
		Kind:     kind,
		Names:    names,
		Category: operands.Category,
	}, nil
}

func collectOpcodes(g *Grammar) (CollectedKind, error) {
	// Aliases share an opcode with an earlier instruction (for example
	// OpDecorateString and OpDecorateStringGOOGLE), and the first one in the
	// grammar is the canonical name.
	names, err := dedupeFirstSeen(g.Instructions,
		func(inst Instruction) uint32 { return inst.Opcode },
		func(inst Instruction) (string, error) {
			if !strings.HasPrefix(inst.Name, opnamePrefix) {
				return "", errors.Wrapf(errMissingOpPrefix, "instruction %q (opcode %d)", inst.Name, inst.Opcode)
			}
			return inst.Name[len(opnamePrefix):], nil
		},
	)
	if err != nil {
		return CollectedKind{}, err
	}

	return CollectedKind{
		Kind:     opcodeKind,
		Names:    names,
		Category: CategoryNone,
	}, nil
}

// collectAll collects each of the given kinds in turn, stopping at the first
// one that can't be collected or wouldn't render to valid C.
func collectAll(g *Grammar, kinds []string) ([]CollectedKind, error) {
	ret := make([]CollectedKind, 0, len(kinds))
	for _, kind := range kinds {
		var ck CollectedKind
		var err error
		if kind == opcodeKind {
			ck, err = collectOpcodes(g)
		} else {
			ck, err = collectEnum(g, kind)
		}
		if err != nil {
			return nil, err
		}
		if err := validateCollected(ck); err != nil {
			return nil, err
		}

		logger.Debugw("collected kind",
			"kind", ck.Kind,
			"category", ck.Category.String(),
			"names", len(ck.Names))
		ret = append(ret, ck)
	}
	return ret, nil
}
