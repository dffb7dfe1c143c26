package project

import "strings"

// Capability is a set of detected project traits.
type Capability uint32

const (
	VsCodeWorkTree Capability = 1 << iota
	GitWorkTree
	TypeScriptProject
	DenoProject
	DenoProjectByVsCodePlugin
	DenoProjectByConvention
	NpmProject
	NpmPublishableProject
	HugoProject
	ReactProject
	NodeProject
	PythonProject
)

var capabilityMarkers = []struct {
	cap    Capability
	marker string
}{
	{VsCodeWorkTree, "isVsCodeProjectWorkTree"},
	{GitWorkTree, "isGitWorkTree"},
	{TypeScriptProject, "isTypeScriptProject"},
	{DenoProject, "isDenoProject"},
	{DenoProjectByVsCodePlugin, "isDenoProjectByVsCodePlugin"},
	{DenoProjectByConvention, "isDenoProjectByConvention"},
	{NpmProject, "isNpmProject"},
	{NpmPublishableProject, "isNpmPublishableProject"},
	{HugoProject, "isHugoProject"},
	{ReactProject, "isReactProject"},
	{NodeProject, "isNodeProject"},
	{PythonProject, "isPythonProject"},
}

// Has reports whether every capability in other is present in c.
func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

// Markers lists the marker names of every capability in c, in declaration order.
func (c Capability) Markers() []string {
	var out []string
	for _, m := range capabilityMarkers {
		if c&m.cap != 0 {
			out = append(out, m.marker)
		}
	}
	return out
}

func (c Capability) String() string {
	markers := c.Markers()
	if len(markers) == 0 {
		return "none"
	}
	return strings.Join(markers, "|")
}
