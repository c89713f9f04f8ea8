// Command briefgen renders a Business Requirements Document from a YAML
// form definition and a JSON answer file, without running the gateway.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"clientbrief/internal/analysis"
	"clientbrief/internal/document"
	"clientbrief/internal/form"
	"clientbrief/internal/safeio"
)

func main() {
	formPath := flag.String("form", "", "path to the YAML form definition")
	answersPath := flag.String("answers", "", "path to a JSON file mapping question ids to answers")
	client := flag.String("client", "", "client name override")
	out := flag.String("out", "brd.md", "output path for the markdown document")
	flag.Parse()

	if *formPath == "" {
		log.Fatal("-form is required")
	}
	if *answersPath == "" {
		log.Fatal("-answers is required")
	}

	raw, err := os.ReadFile(*formPath)
	if err != nil {
		log.Fatalf("reading form definition: %v", err)
	}
	f, err := form.ParseDefinition(raw)
	if err != nil {
		log.Fatal(err)
	}
	if v := strings.TrimSpace(*client); v != "" {
		f.ClientName = v
	}

	answers, err := loadAnswers(*answersPath)
	if err != nil {
		log.Fatal(err)
	}
	for id, answer := range answers {
		q, ok := f.Question(id)
		if !ok {
			log.Fatalf("unknown question %q in answers", id)
		}
		if answer == nil {
			continue
		}
		if err := form.CheckAnswer(q, answer); err != nil {
			log.Fatal(err)
		}
	}

	res := analysis.NewEngine().Analyze(analysis.Input{
		FormTitle:   f.Title,
		ClientName:  f.ClientName,
		Description: f.Description,
		Responses:   form.Responses(f, answers),
	})
	md := document.Build(f.Title, f.ClientName, time.Now().UTC(), res)

	if err := safeio.WriteFileAtomic(*out, []byte(md), 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%d requirements)", *out, len(res.Requirements))
}

func loadAnswers(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}
	var answers map[string]any
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("parsing answers: %w", err)
	}
	return answers, nil
}
