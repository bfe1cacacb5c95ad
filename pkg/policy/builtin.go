package policy

// builtinPolicies returns the safety policies shipped with the tool. They
// guard against configuration mistakes that would touch files outside the
// user's own environment.
func builtinPolicies() []Policy {
	return []Policy{
		symlinkUnderHomePolicy(),
		worldWritablePolicy(),
		removeOutsideHomePolicy(),
	}
}

// symlinkUnderHomePolicy denies symlinks placed outside the home
// directory.
func symlinkUnderHomePolicy() Policy {
	return Policy{
		Name:        "symlink-under-home",
		Description: "Symlinks may only be created under the home directory",
		Severity:    SeverityError,
		Enabled:     true,
		Rego: `package homeforge.policies.symlink_under_home

import rego.v1

deny contains violation if {
	input.kind == "symlink"
	input.operation == "apply"
	not startswith(input.path, input.home)
	violation := {
		"message": sprintf("symlink path %s is outside the home directory", [input.path]),
		"severity": "error",
	}
}
`,
	}
}

// worldWritablePolicy denies world-writable file modes.
func worldWritablePolicy() Policy {
	return Policy{
		Name:        "no-world-writable",
		Description: "File modes must not grant write access to others",
		Severity:    SeverityError,
		Enabled:     true,
		Rego: `package homeforge.policies.no_world_writable

import rego.v1

deny contains violation if {
	input.kind == "filemode"
	other := to_number(substring(input.mode, count(input.mode) - 1, 1))
	bits.and(other, 2) == 2
	violation := {
		"message": sprintf("mode %s on %s is world-writable", [input.mode, input.path]),
		"severity": "error",
	}
}
`,
	}
}

// removeOutsideHomePolicy denies removal operations that reach outside the
// home directory.
func removeOutsideHomePolicy() Policy {
	return Policy{
		Name:        "no-remove-outside-home",
		Description: "Removal runs may only delete entries under the home directory",
		Severity:    SeverityError,
		Enabled:     true,
		Rego: `package homeforge.policies.no_remove_outside_home

import rego.v1

deny contains violation if {
	input.operation == "remove"
	input.path != ""
	not startswith(input.path, input.home)
	violation := {
		"message": sprintf("removal of %s is outside the home directory", [input.path]),
		"severity": "error",
	}
}
`,
	}
}
