package settings

import (
	"fmt"
	"sort"
)

// Kind names a family of editor settings.
type Kind string

const (
	KindCommon Kind = "common"
	KindDeno   Kind = "deno"
	KindHugo   Kind = "hugo"
	KindReact  Kind = "react"
	KindNode   Kind = "node"
	KindPython Kind = "python"
)

type kindTables struct {
	settings   func() Settings
	extensions func() []Extension
}

var tables = map[Kind]kindTables{
	KindCommon: {CommonSettings, CommonExtensions},
	KindDeno:   {DenoSettings, DenoExtensions},
	KindHugo:   {HugoSettings, HugoExtensions},
	KindReact:  {ReactSettings, ReactExtensions},
	KindNode:   {NodeSettings, NodeExtensions},
	KindPython: {PythonSettings, PythonExtensions},
}

// Kinds lists every known kind in name order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(tables))
	for k := range tables {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseKind validates a kind name.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if _, ok := tables[k]; !ok {
		return "", fmt.Errorf("unknown settings kind %q (expected one of %v)", name, Kinds())
	}
	return k, nil
}

// ForKind returns fresh copies of the settings and extensions for k.
func ForKind(k Kind) (Settings, []Extension, error) {
	t, ok := tables[k]
	if !ok {
		return nil, nil, fmt.Errorf("unknown settings kind %q", k)
	}
	return t.settings(), t.extensions(), nil
}
