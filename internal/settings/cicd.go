package settings

// GitLabCI is the content of a .gitlab-ci.yml file.
type GitLabCI map[string]any

// GitLabCIConfig returns props, or the default Deno test pipeline when props is empty.
func GitLabCIConfig(props map[string]any) GitLabCI {
	if len(props) > 0 {
		return GitLabCI(props)
	}
	return GitLabCI{
		"stages": []string{"testing"},
		"DenoTest": map[string]any{
			"image": map[string]any{"name": "hayd/deno:latest"},
			"stage": "testing",
			"script": []string{
				"deno --version",
				"deno info",
				"deno lint --unstable",
				"deno fmt --unstable",
				"deno test -A --unstable",
			},
		},
	}
}

// GitHubWorkflow is the content of a .github/workflows/*.yml file.
type GitHubWorkflow struct {
	Name string         `yaml:"name"`
	On   map[string]any `yaml:"on"`
	Jobs map[string]any `yaml:"jobs"`
}

// GitHubActionsConfig fills every empty field of partial with the Deno test workflow.
func GitHubActionsConfig(partial GitHubWorkflow) GitHubWorkflow {
	wf := partial
	if wf.Name == "" {
		wf.Name = "Deno"
	}
	if wf.On == nil {
		wf.On = map[string]any{
			"push":         map[string]any{"branches": "main"},
			"pull_request": map[string]any{"branches": "main"},
		}
	}
	if wf.Jobs == nil {
		wf.Jobs = map[string]any{
			"test": map[string]any{
				"runs-on": "ubuntu-latest",
				"strategy": map[string]any{
					"matrix": map[string]any{"deno": []string{"v1.x", "nightly"}},
				},
				"steps": []map[string]any{
					{"name": "Setup repo", "uses": "actions/checkout@v2"},
					{
						"name": "Install Deno and execute unit testing",
						"run": "curl -fsSL https://deno.land/x/install/install.sh | sh && " +
							"export PATH=$PATH:/home/runner/.deno/bin; deno --version; deno info; " +
							"deno lint --unstable && deno fmt --unstable && deno test -A --unstable;",
					},
				},
			},
		}
	}
	return wf
}
