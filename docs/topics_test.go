package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"
)

// readmeTopics returns the topics listed in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	// The readme and the embedded files must list the same topics.
	listed := readmeTopics(t)
	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("topic %q is listed in readme.md but cannot be loaded: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestTitle(t *testing.T) {
	got, err := Title("derivation")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Derivation" {
		t.Errorf("Title() = %q, want %q", got, "Derivation")
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		prefix  string
		want    string
		wantErr bool
	}{
		{"commit", "commit", false},
		{"deriv", "derivation", false},
		{"readme", "readme", false},
		{"c", "", true}, // catalog, commit, config
		{"nope", "", true},
	}
	for _, tt := range tests {
		got, err := Match(tt.prefix)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Match(%q) = %q, %v, want %q", tt.prefix, got, err, tt.want)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"# Import", "# Review", "# Derivation", "# Commit"} {
		if !strings.Contains(all, title) {
			t.Errorf("all topics do not contain %q", title)
		}
	}
	if strings.Contains(all, "Topics, use") {
		t.Errorf("the readme is not a topic")
	}

	if _, err := GetTopics("commit", "nope"); err == nil {
		t.Errorf("GetTopics() of an unknown topic should fail")
	}
}
