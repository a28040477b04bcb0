package repo

const (
	AppName = "AxiomTxflow"

	// CfgFileName is the default config name
	CfgFileName = "config.toml"

	// defaultRepoRoot is the path to the default config dir location.
	defaultRepoRoot = "~/.axiom-txflow"

	// rootPathEnvVar is the environment variable used to change the path root.
	rootPathEnvVar = "AXIOM_TXFLOW_PATH"

	envPrefix = "AXIOM_TXFLOW"

	// SenderKeystorePasswordEnvVar unlocks sender.keystore when no password flag is given.
	SenderKeystorePasswordEnvVar = "AXIOM_TXFLOW_KEYSTORE_PASSWORD"
)
