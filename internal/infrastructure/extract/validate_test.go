package extract

import (
	"strings"
	"testing"

	"github.com/doeshing/aegis-go/internal/domain"
)

func TestValidatePath(t *testing.T) {
	validator := NewValidator(domain.ValidationLimits{})

	valid := []string{
		"src/example.ts",
		"main.go",
		"./scripts/build.sh",
		"~/notes/todo.md",
		"deep/nested/dir/file.txt",
	}
	for _, path := range valid {
		if err := validator.ValidatePath(path); err != nil {
			t.Fatalf("expected %q valid, got %v", path, err)
		}
	}

	invalid := []string{
		"",
		"src/<script>.ts",
		"a|b.txt",
		"glob/*.go",
		"what?.md",
		"src/" + strings.Repeat("x", 300) + ".go",
		"spaced name.txt",
		"semi;colon.sh",
	}
	for _, path := range invalid {
		if err := validator.ValidatePath(path); err == nil {
			t.Fatalf("expected %q rejected", path)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	validator := NewValidator(domain.ValidationLimits{})

	valid := []string{"ls -la", "npm test", "go build ./..."}
	for _, command := range valid {
		if err := validator.ValidateCommand(command); err != nil {
			t.Fatalf("expected %q valid, got %v", command, err)
		}
	}

	invalid := []string{
		"",
		"rm -rf /",
		"sudo apt install foo",
		"chmod 777 /etc",
		"shutdown -h now",
		"echo hi && dd if=/dev/zero of=/dev/sda",
		"SUDO reboot",
		strings.Repeat("x", 250),
	}
	for _, command := range invalid {
		if err := validator.ValidateCommand(command); err == nil {
			t.Fatalf("expected %q rejected", command)
		}
	}
}

func TestValidatorCustomLimits(t *testing.T) {
	validator := NewValidator(domain.ValidationLimits{
		MaxPathLength:     10,
		MaxCommandLength:  8,
		DangerousCommands: []string{"frobnicate"},
	})

	if err := validator.ValidatePath("toolong/path.go"); err == nil {
		t.Fatal("expected custom path limit to apply")
	}
	if err := validator.ValidateCommand("frobnica"); err != nil {
		t.Fatalf("expected short command valid, got %v", err)
	}
	if err := validator.ValidateCommand("echo hi again"); err == nil {
		t.Fatal("expected custom command limit to apply")
	}
}
