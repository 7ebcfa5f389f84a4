// Package export walks a source directory and emits the events an export
// document is assembled from.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"repo2ai/internal/tokenizer"
	"repo2ai/internal/types"
	"repo2ai/internal/utils"
)

// DefaultMaxFileSize caps the content inlined for a single file.
const DefaultMaxFileSize = 10 * 1024 * 1024

const (
	fileTooLargeFormat   = "[File too large: %d bytes]"
	fileUnreadableFormat = "[Binary or unreadable file: %s]"
	binaryContentReason  = "binary data"
)

// Options configures a single walk.
type Options struct {
	Root         string
	Rules        RuleSet
	MaxFileSize  int64
	TokenCounter tokenizer.Counter
	TokenModel   string
}

type walker struct {
	options Options
	ctx     context.Context
	out     chan<- Event
}

// Walk traverses options.Root and sends events to out. Entries are visited in
// sorted order. Unreadable directories produce a warning event and are
// skipped. Walk returns when the traversal completes or the context is
// cancelled; it does not close out.
func Walk(ctx context.Context, options Options, out chan<- Event) error {
	if options.Root == "" {
		return fmt.Errorf("export: root path is empty")
	}
	if out == nil {
		return fmt.Errorf("export: event channel is nil")
	}
	if options.MaxFileSize <= 0 {
		options.MaxFileSize = DefaultMaxFileSize
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rootInfo, rootStatError := os.Stat(options.Root)
	if rootStatError != nil {
		return rootStatError
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf("export: source path %s is not a directory", options.Root)
	}

	walkState := &walker{options: options, ctx: ctx, out: out}
	return walkState.walkDirectory(options.Root, 0)
}

func (walkState *walker) send(event Event) error {
	select {
	case <-walkState.ctx.Done():
		return walkState.ctx.Err()
	case walkState.out <- event:
		return nil
	}
}

func (walkState *walker) warn(format string, arguments ...any) error {
	return walkState.send(Event{Kind: EventWarning, Message: fmt.Sprintf(format, arguments...)})
}

func (walkState *walker) walkDirectory(directoryPath string, depth int) error {
	entries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return walkState.warn("skipping directory %s: %v", directoryPath, readError)
	}

	for _, entry := range entries {
		entryPath := filepath.Join(directoryPath, entry.Name())
		relativePath := utils.RelativePathOrSelf(entryPath, walkState.options.Root)
		if walkState.options.Rules.ExcludesEntry(relativePath, entry.IsDir()) {
			continue
		}

		entryInfo, infoError := entry.Info()
		if infoError != nil {
			if warnError := walkState.warn("unable to stat %s: %v", entryPath, infoError); warnError != nil {
				return warnError
			}
			continue
		}

		if entry.IsDir() {
			directoryEvent := DirectoryEvent{
				Path:         entryPath,
				RelativePath: relativePath,
				Name:         entry.Name(),
				Depth:        depth,
				LastModified: utils.FormatTimestamp(entryInfo.ModTime()),
			}
			if sendError := walkState.send(Event{Kind: EventEnterDirectory, Directory: &directoryEvent}); sendError != nil {
				return sendError
			}
			if walkError := walkState.walkDirectory(entryPath, depth+1); walkError != nil {
				return walkError
			}
			if sendError := walkState.send(Event{Kind: EventLeaveDirectory, Directory: &directoryEvent}); sendError != nil {
				return sendError
			}
			continue
		}

		fileNode, buildError := walkState.buildFileNode(entryPath, relativePath, entryInfo)
		if buildError != nil {
			return buildError
		}
		if sendError := walkState.send(Event{Kind: EventFile, File: fileNode}); sendError != nil {
			return sendError
		}
	}

	return nil
}

func (walkState *walker) buildFileNode(filePath string, relativePath string, fileInfo os.FileInfo) (*types.FileNode, error) {
	fileNode := &types.FileNode{
		Name:         filepath.Base(filePath),
		Path:         relativePath,
		Language:     DetectLanguage(filePath),
		Size:         utils.FormatFileSize(fileInfo.Size()),
		SizeBytes:    fileInfo.Size(),
		LastModified: utils.FormatTimestamp(fileInfo.ModTime()),
	}

	if fileInfo.Size() > walkState.options.MaxFileSize {
		if warnError := walkState.warn("skipping large file (%d bytes): %s", fileInfo.Size(), filePath); warnError != nil {
			return nil, warnError
		}
		fileNode.Content = fmt.Sprintf(fileTooLargeFormat, fileInfo.Size())
		return fileNode, nil
	}

	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		if warnError := walkState.warn("skipping file (error: %v): %s", readError, filePath); warnError != nil {
			return nil, warnError
		}
		fileNode.Content = fmt.Sprintf(fileUnreadableFormat, readError.Error())
		return fileNode, nil
	}

	if utils.IsBinary(fileBytes) {
		fileNode.Content = fmt.Sprintf(fileUnreadableFormat, binaryContentReason)
		return fileNode, nil
	}

	fileNode.Content = utils.SanitizeContent(string(fileBytes))

	if walkState.options.TokenCounter != nil {
		countResult, countError := tokenizer.CountBytes(walkState.options.TokenCounter, fileBytes)
		if countError != nil {
			if warnError := walkState.warn("failed to count tokens for %s: %v", filePath, countError); warnError != nil {
				return nil, warnError
			}
		} else if countResult.Counted {
			fileNode.Tokens = countResult.Tokens
			if countResult.Tokens > 0 {
				fileNode.Model = walkState.options.TokenModel
			}
		}
	}

	return fileNode, nil
}
