package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// configSchema is the CUE schema every decoded configuration must satisfy.
// The TOML decoder and validator catch structural problems; the schema
// catches cross-field and value-domain mistakes, e.g. malformed modes.
const configSchema = `
#Config: {
	settings?: {
		parallel?:      bool
		fix_incorrect?: bool
	}
	symlinks?: [...#Symlink]
	permissions?: [...#Permission]
	packages?: [...#Package]
	extensions?: [...#Extension]
	registry?: [...#Registry]
	services?: [...#Service]
}

#Meta: {
	profiles?: [...string]
	when?: string
}

#Symlink: {
	#Meta
	path:   string & !=""
	target: string & !=""
}

#Permission: {
	#Meta
	path: string & !=""
	mode: string & =~"^0[0-7]{3}$"
}

#Package: {
	#Meta
	name:     string & !=""
	manager?: "apt" | "dnf" | "yum" | "zypper" | "pacman" | "brew" | "winget" | "choco"
}

#Extension: {
	#Meta
	id: string & =~"^[A-Za-z0-9][A-Za-z0-9-]*\\.[A-Za-z0-9][A-Za-z0-9._-]*$"
}

#Registry: {
	#Meta
	key:   string & =~"^(HKLM|HKCU|HKCR|HKU|HKCC)\\\\"
	name:  string & !=""
	type:  "REG_SZ" | "REG_EXPAND_SZ" | "REG_DWORD" | "REG_QWORD"
	value: string
}

#Service: {
	#Meta
	unit:     string & =~"\\.(service|timer|socket)$"
	enabled?: bool
	now?:     bool
}
`

// validateSchema unifies the decoded configuration with the embedded CUE
// schema and reports the first constraint violation.
func validateSchema(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal: config schema does not compile: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("internal: config schema missing #Config: %w", err)
	}

	value := ctx.Encode(cfg)
	if err := value.Err(); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("configuration violates schema: %w", err)
	}

	return nil
}
