package main

import (
	"testing"

	"bindery/internal/testsupport"
)

const cliSampleHTML = `<p>Quarter leather.</p><ul><li>Author: Jane Austen</li><li>Title: Emma</li></ul>`

func TestProcessCommandHappyPath(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedFolder(t, env.cfg, "folder-001", "24.99", cliSampleHTML, "4000",
		"https://img.example.com/folder-001/1.jpg",
	)
	testsupport.SeedFolder(t, env.cfg, "folder-002", "9.50", cliSampleHTML, "5000",
		"https://img.example.com/folder-002/1.jpg",
	)

	out, _, err := runCLI(t, []string{"process"}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Processed 2, skipped 0, failed 0")

	// Repeated runs append nothing new.
	out, _, err = runCLI(t, []string{"process"}, env.configPath)
	if err != nil {
		t.Fatalf("second process: %v", err)
	}
	requireContains(t, out, "Processed 0, skipped 0, failed 0")
}

func TestProcessCommandExitsNonzeroOnFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedManifest(t, env.cfg, "folder-001", "https://img.example.com/1.jpg")
	// No agent output for folder-001.

	out, _, err := runCLI(t, []string{"process"}, env.configPath)
	if err == nil {
		t.Fatal("process should fail when a folder fails")
	}
	requireContains(t, out, "failed 1")
}

func TestProcessCommandRejectsUnknownConflictPolicy(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"process", "--conflict", "replace"}, env.configPath)
	if err == nil {
		t.Fatal("process should reject an unknown conflict policy")
	}
	requireContains(t, err.Error(), "invalid conflict policy")
}

func TestAssembleCommandSingleFolder(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedFolder(t, env.cfg, "folder-001", "24.99", cliSampleHTML, "4000",
		"https://img.example.com/folder-001/1.jpg",
	)

	out, _, err := runCLI(t, []string{"assemble", "folder-001"}, env.configPath)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	requireContains(t, out, "Processed 1, skipped 0, failed 0")
	requireContains(t, out, "(1 rows)")
}

func TestBatchCommandProcessesAllFolders(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedFolder(t, env.cfg, "folder-002", "9.50", cliSampleHTML, "5000",
		"https://img.example.com/folder-002/1.jpg",
	)
	testsupport.SeedFolder(t, env.cfg, "folder-001", "24.99", cliSampleHTML, "4000",
		"https://img.example.com/folder-001/1.jpg",
	)

	out, _, err := runCLI(t, []string{"batch"}, env.configPath)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	requireContains(t, out, "Processed 2, skipped 0, failed 0")
}

func TestQueueCommandsRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedManifest(t, env.cfg, "folder-001", "https://img.example.com/1.jpg")
	// Missing agent output leaves the folder failed in the queue.

	if _, _, err := runCLI(t, []string{"process"}, env.configPath); err == nil {
		t.Fatal("process should fail")
	}

	out, _, err := runCLI(t, []string{"queue", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	requireContains(t, out, "folder-001")
	requireContains(t, out, "failed")

	out, _, err = runCLI(t, []string{"queue", "health"}, env.configPath)
	if err != nil {
		t.Fatalf("queue health: %v", err)
	}
	requireContains(t, out, "failed")

	out, _, err = runCLI(t, []string{"queue", "retry"}, env.configPath)
	if err != nil {
		t.Fatalf("queue retry: %v", err)
	}
	requireContains(t, out, "Reset 1 entry for retry")

	out, _, err = runCLI(t, []string{"queue", "clear", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	requireContains(t, out, "Removed 1 entry")

	out, _, err = runCLI(t, []string{"queue", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list after clear: %v", err)
	}
	requireContains(t, out, "Queue is empty")
}
