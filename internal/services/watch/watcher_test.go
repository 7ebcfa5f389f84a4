package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"repo2ai/internal/export"
	"repo2ai/internal/services/watch"
)

func TestRunInvokesCallbackAfterChange(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()

	changeSignal := make(chan struct{}, 1)
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	runDone := make(chan error, 1)
	go func() {
		runDone <- watch.Run(runCtx, watch.Options{
			Root:     rootDirectory,
			Rules:    export.NewRuleSet(nil, nil, false),
			Debounce: 50 * time.Millisecond,
		}, func() error {
			select {
			case changeSignal <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watcher a moment to register before touching the tree.
	time.Sleep(100 * time.Millisecond)
	if writeError := os.WriteFile(filepath.Join(rootDirectory, "touched.txt"), []byte("touched"), 0o644); writeError != nil {
		testInstance.Fatalf("write file: %v", writeError)
	}

	select {
	case <-changeSignal:
	case <-time.After(5 * time.Second):
		testInstance.Fatal("expected the change callback to run")
	}

	cancelRun()
	runError := <-runDone
	if runError != nil && !errors.Is(runError, context.Canceled) {
		testInstance.Fatalf("unexpected Run error: %v", runError)
	}
}

func TestRunIgnoresExcludedPaths(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	excludedDirectory := filepath.Join(rootDirectory, "node_modules")
	if mkdirError := os.MkdirAll(excludedDirectory, 0o755); mkdirError != nil {
		testInstance.Fatalf("create excluded directory: %v", mkdirError)
	}

	changeSignal := make(chan struct{}, 1)
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	runDone := make(chan error, 1)
	go func() {
		runDone <- watch.Run(runCtx, watch.Options{
			Root:     rootDirectory,
			Rules:    export.NewRuleSet([]string{"node_modules"}, nil, false),
			Debounce: 50 * time.Millisecond,
		}, func() error {
			select {
			case changeSignal <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)
	if writeError := os.WriteFile(filepath.Join(excludedDirectory, "dep.js"), []byte("x"), 0o644); writeError != nil {
		testInstance.Fatalf("write file: %v", writeError)
	}

	select {
	case <-changeSignal:
		testInstance.Fatal("expected no callback for an excluded path")
	case <-time.After(400 * time.Millisecond):
	}

	cancelRun()
	<-runDone
}

func TestRunRequiresCallback(testInstance *testing.T) {
	runError := watch.Run(context.Background(), watch.Options{Root: testInstance.TempDir()}, nil)
	if runError == nil {
		testInstance.Fatal("expected an error for a nil callback")
	}
}

func TestRunRequiresRoot(testInstance *testing.T) {
	runError := watch.Run(context.Background(), watch.Options{}, func() error { return nil })
	if runError == nil {
		testInstance.Fatal("expected an error for an empty root")
	}
}
