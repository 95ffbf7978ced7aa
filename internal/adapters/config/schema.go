package config

// File is the structure of lockstep.yaml.
type File struct {
	Scopes    *[]string     `yaml:"scopes"`
	Manifest  string        `yaml:"manifest"`
	Lockfile  string        `yaml:"lockfile"`
	Installer *InstallerDTO `yaml:"installer"`
}

// InstallerDTO is the installer section of lockstep.yaml.
type InstallerDTO struct {
	PackageManager string   `yaml:"packageManager"`
	Command        []string `yaml:"command"`
	Force          *bool    `yaml:"force"`
	Timeout        string   `yaml:"timeout"`
}
