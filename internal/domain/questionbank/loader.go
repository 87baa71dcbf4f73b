package questionbank

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultCorpus []byte

type corpusFile struct {
	Questions []Question `yaml:"questions"`
}

// LoadYAML reads a corpus of the form `questions: [{id, text, category, difficulty}]`.
func LoadYAML(r io.Reader) (*Bank, error) {
	var f corpusFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse question corpus: %w", err)
	}
	if len(f.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	bank, err := New(f.Questions...)
	if err != nil {
		return nil, fmt.Errorf("validate question corpus: %w", err)
	}
	return bank, nil
}

// LoadFile loads a YAML corpus from disk.
func LoadFile(path string) (*Bank, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question corpus %s: %w", path, err)
	}
	defer file.Close()
	return LoadYAML(file)
}

// Default returns the built-in corpus.
func Default() *Bank {
	bank, err := LoadYAML(bytes.NewReader(defaultCorpus))
	if err != nil {
		panic("questionbank: embedded corpus is invalid: " + err.Error())
	}
	return bank
}
