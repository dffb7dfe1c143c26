package settings

func ReactSettings() Settings {
	formatter := func() map[string]any {
		return map[string]any{"editor.defaultFormatter": "esbenp.prettier-vscode"}
	}
	return mustLayer(CommonSettings(), Settings{
		"typescript.tsdk":     "node_modules/typescript/lib",
		"workbench.iconTheme": "vscode-icons",
		"[typescript]": map[string]any{
			"editor.defaultFormatter": "esbenp.prettier-vscode",
			"editor.tabSize":          2,
		},
		"typescript.updateImportsOnFileMove.enabled": "always",
		"javascript.updateImportsOnFileMove.enabled": "always",
		"vsicons.projectDetection.autoReload":        true,
		"[typescriptreact]":                          formatter(),
		"[javascript]":                               formatter(),
		"[json]":                                     formatter(),
		"[html]":                                     formatter(),
		"jest.autoEnable":                            false,
		"jest.runAllTestsFirst":                      false,
	})
}

func ReactExtensions() []Extension {
	return append(CommonExtensions(), extensions(
		"dbaeumer.vscode-eslint",
		"esbenp.prettier-vscode",
		"msjsdiag.debugger-for-chrome",
		"vscode-icons-team.vscode-icons",
		"Orta.vscode-jest",
		"eg2.vscode-npm-script",
		"jpoissonnier.vscode-styled-components",
	)...)
}

func NodeSettings() Settings {
	return CommonSettings()
}

func NodeExtensions() []Extension {
	return CommonExtensions()
}

func PythonSettings() Settings {
	return mustLayer(CommonSettings(), Settings{
		"explorer.openEditors.visible":    0,
		"terminal.integrated.shell.linux": "/bin/zsh",
		"terminal.integrated.fontFamily":  fontFamily,
		"python.formatting.provider":      "black",
		"python.formatting.blackArgs":     []any{"--line-length", "100"},
		"python.linting.enabled":          true,
		"python.linting.pylintEnabled":    false,
		"python.linting.mypyEnabled":      true,
		"python.linting.lintOnSave":       true,
	})
}

func PythonExtensions() []Extension {
	return append(CommonExtensions(), extensions(
		"ms-python.python",
		"ms-python.vscode-pylance",
		"mechatroner.rainbow-csv",
		"esbenp.prettier-vscode",
		"eamodio.gitlens",
		"bungcip.better-toml",
	)...)
}
