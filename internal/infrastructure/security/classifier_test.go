package security

import (
	"testing"

	"github.com/doeshing/aegis-go/internal/domain"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	classifier, err := NewClassifier(domain.RiskRules{})
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}
	return classifier
}

func TestClassifyHighRiskCommands(t *testing.T) {
	classifier := newTestClassifier(t)

	high := []string{
		"rm -rf /tmp/build",
		"sudo apt upgrade",
		"shutdown -h now",
		"chmod 777 .",
		"dd if=/dev/zero of=/dev/sda",
		"please delete the old records",
	}
	for _, input := range high {
		got := classifier.Classify(input)
		if got.Level != domain.RiskHigh {
			t.Fatalf("%q: expected high, got %+v", input, got)
		}
		if got.Rationale == "" {
			t.Fatalf("%q: expected a rationale", input)
		}
	}
}

func TestClassifyMediumRiskCommands(t *testing.T) {
	classifier := newTestClassifier(t)

	medium := []string{
		"npm install express",
		"git commit -m 'wip'",
		"mkdir build",
		"copy the assets over",
	}
	for _, input := range medium {
		if got := classifier.Classify(input); got.Level != domain.RiskMedium {
			t.Fatalf("%q: expected medium, got %+v", input, got)
		}
	}
}

func TestClassifyLowRiskByDefault(t *testing.T) {
	classifier := newTestClassifier(t)

	low := []string{"ls -la", "cat notes.txt", "create file src/example.ts"}
	for _, input := range low {
		if got := classifier.Classify(input); got.Level != domain.RiskLow {
			t.Fatalf("%q: expected low, got %+v", input, got)
		}
	}
}

func TestClassifyHighDominatesMedium(t *testing.T) {
	classifier := newTestClassifier(t)

	// "install" is a medium keyword but sudo forces high.
	got := classifier.Classify("sudo apt install htop")
	if got.Level != domain.RiskHigh {
		t.Fatalf("expected high to dominate, got %+v", got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	classifier := newTestClassifier(t)

	first := classifier.Classify("git push origin main")
	for i := 0; i < 10; i++ {
		if got := classifier.Classify("git push origin main"); got != first {
			t.Fatalf("classification changed between calls: %+v vs %+v", first, got)
		}
	}
}

func TestNewClassifierRejectsBadPattern(t *testing.T) {
	_, err := NewClassifier(domain.RiskRules{
		DangerPatterns: []domain.DangerPattern{{Pattern: "([", Message: "broken"}},
	})
	if err == nil {
		t.Fatal("expected compile error")
	}
}
