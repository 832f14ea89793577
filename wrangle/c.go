package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const generatedNotice = "/* DO NOT EDIT - This file is generated automatically by the spirv-meta wrangle tool */\n"

const copyright = `/*
 * Copyright (C) 2017 Intel Corporation
 *
 * Permission is hereby granted, free of charge, to any person obtaining a
 * copy of this software and associated documentation files (the "Software"),
 * to deal in the Software without restriction, including without limitation
 * the rights to use, copy, modify, merge, publish, distribute, sublicense,
 * and/or sell copies of the Software, and to permit persons to whom the
 * Software is furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice (including the next
 * paragraph) shall be included in all copies or substantial portions of the
 * Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
 * THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
 * FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
 * DEALINGS IN THE SOFTWARE.
 */
`

const (
	symbolPrefix = "Spv"
	maxSentinel  = "Max"
	unknownName  = "unknown"
)

func lookupFuncName(kind string) string {
	return "spirv_" + makeIdentLower(kind) + "_to_string"
}

func paramType(ck CollectedKind) string {
	if ck.Category.IsBitEnum() {
		return symbolPrefix + ck.Kind + "Mask"
	}
	return symbolPrefix + ck.Kind
}

// caseConstant returns the spirv.h constant for one name of a kind. Bit
// flags get a Mask suffix, except that the zero flag is spelled
// Spv<Kind>MaskNone rather than Spv<Kind>NoneMask.
func caseConstant(ck CollectedKind, name string) string {
	switch {
	case !ck.Category.IsBitEnum():
		return symbolPrefix + ck.Kind + name
	case name == "None":
		return symbolPrefix + ck.Kind + "MaskNone"
	default:
		return symbolPrefix + ck.Kind + name + "Mask"
	}
}

func renderDeclarations(kinds []CollectedKind) string {
	var w strings.Builder

	w.WriteString(generatedNotice)
	w.WriteString("\n")
	w.WriteString(copyright)
	w.WriteString("\n")
	w.WriteString("#ifndef _SPIRV_INFO_H_\n")
	w.WriteString("#define _SPIRV_INFO_H_\n")
	w.WriteString("\n")
	w.WriteString("#include \"spirv.h\"\n")
	w.WriteString("\n")
	for _, ck := range kinds {
		fmt.Fprintf(&w, "const char *%s(%s v);\n", lookupFuncName(ck.Kind), paramType(ck))
	}
	w.WriteString("\n")
	w.WriteString("#endif /* SPIRV_INFO_H */\n")

	return w.String()
}

func renderDefinitions(kinds []CollectedKind, headerName string) string {
	var w strings.Builder

	w.WriteString(generatedNotice)
	w.WriteString("\n")
	w.WriteString(copyright)
	fmt.Fprintf(&w, "#include \"%s\"\n", headerName)

	for _, ck := range kinds {
		w.WriteString("\n")
		w.WriteString("const char *\n")
		fmt.Fprintf(&w, "%s(%s v)\n", lookupFuncName(ck.Kind), paramType(ck))
		w.WriteString("{\n")
		w.WriteString("   switch (v) {\n")
		for _, name := range ck.Names {
			fmt.Fprintf(&w, "   case %s: return \"%s%s%s\";\n", caseConstant(ck, name), symbolPrefix, ck.Kind, name)
		}
		if !ck.Category.IsBitEnum() {
			// Never matched; it only keeps -Wswitch quiet about the
			// sentinel that spirv.h defines for every scalar enum.
			fmt.Fprintf(&w, "   case %s%s%s: break; /* silence warnings about unhandled enums. */\n", symbolPrefix, ck.Kind, maxSentinel)
		}
		w.WriteString("   }\n")
		w.WriteString("\n")
		fmt.Fprintf(&w, "   return \"%s\";\n", unknownName)
		w.WriteString("}\n")
	}

	return w.String()
}

// cFragments is the pair of rendered bodies, keyed by the path each one is
// destined for.
type cFragments struct {
	HeaderPath, SourcePath string
	Header, Source         string
}

func renderCFragments(headerPath, sourcePath string, kinds []CollectedKind) cFragments {
	return cFragments{
		HeaderPath: headerPath,
		SourcePath: sourcePath,
		Header:     renderDeclarations(kinds),
		Source:     renderDefinitions(kinds, filepath.Base(headerPath)),
	}
}

func generateCFragments(headerPath, sourcePath string, kinds []CollectedKind) error {
	frags := renderCFragments(headerPath, sourcePath, kinds)

	for _, out := range []struct{ path, body string }{
		{frags.HeaderPath, frags.Header},
		{frags.SourcePath, frags.Source},
	} {
		if err := os.MkdirAll(filepath.Dir(out.path), os.ModePerm); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", out.path)
		}
		if err := os.WriteFile(out.path, []byte(out.body), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", out.path)
		}
		logger.Infow("wrote generated file", "path", out.path, "bytes", len(out.body))
	}

	return nil
}

// staleCFragments returns the paths whose current contents differ from what
// we would generate for kinds. A missing file counts as stale.
func staleCFragments(headerPath, sourcePath string, kinds []CollectedKind) ([]string, error) {
	frags := renderCFragments(headerPath, sourcePath, kinds)

	var stale []string
	for _, out := range []struct{ path, body string }{
		{frags.HeaderPath, frags.Header},
		{frags.SourcePath, frags.Source},
	} {
		existing, err := os.ReadFile(out.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Debugw("generated file is missing", "path", out.path)
			stale = append(stale, out.path)
		case err != nil:
			return nil, errors.Wrapf(err, "failed to read %s", out.path)
		case !bytes.Equal(existing, []byte(out.body)):
			logger.Debugw("generated file differs", "path", out.path)
			stale = append(stale, out.path)
		}
	}
	return stale, nil
}
