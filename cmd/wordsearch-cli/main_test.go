package main

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Flag values live in package vars and survive between Execute calls.
	category, difficulty, numPuzzles, seed, showSolution = "ANIMALS", "EASY", 1, 0, false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenCommand(t *testing.T) {
	out, err := run(t, "gen", "-c", "animals", "-d", "easy", "--seed", "7", "--solution")
	if err != nil {
		t.Fatalf("gen: %v", err)
	}
	for _, want := range []string{"Puzzle #1 (Animals, EASY", "Solution:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	again, err := run(t, "gen", "-c", "animals", "-d", "easy", "--seed", "7", "--solution")
	if err != nil {
		t.Fatal(err)
	}
	if again != out {
		t.Fatal("same seed produced different output")
	}
}

func TestGenRejectsBadInput(t *testing.T) {
	if _, err := run(t, "gen", "-c", "colors"); err == nil {
		t.Fatal("expected unknown category error")
	}
	if _, err := run(t, "gen", "-c", "food", "-d", "brutal"); err == nil {
		t.Fatal("expected unknown difficulty error")
	}
	if _, err := run(t, "gen", "-c", "food", "-d", "easy", "-n", "0"); err == nil {
		t.Fatal("expected error for zero puzzles")
	}
}

func TestCategoriesCommand(t *testing.T) {
	out, err := run(t, "categories")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ANIMALS", "Travel", "HARD", "UP_LEFT"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
