// Package output assembles and serializes export documents.
package output

import (
	"fmt"
	"io"
	"strings"

	"repo2ai/internal/export"
	"repo2ai/internal/types"
	"repo2ai/internal/utils"
)

const patternListSeparator = ", "

// Builder consumes walk events and assembles a Repository document.
type Builder struct {
	repository     *types.Repository
	stack          []*types.DirectoryNode
	stderr         io.Writer
	includeSummary bool
	tokenModel     string
	files          int
	bytes          int64
	tokens         int
}

// NewBuilder constructs a Builder for the provided source. Warnings are
// written to stderr as they arrive.
func NewBuilder(source types.ValidatedSource, rules export.RuleSet, modulePath string, includeSummary bool, tokenModel string, stderr io.Writer) *Builder {
	return &Builder{
		repository: &types.Repository{
			SourcePath:      source.AbsolutePath,
			Name:            source.Name,
			Module:          modulePath,
			ExcludedFolders: strings.Join(rules.FolderPatterns(), patternListSeparator),
			ExcludedFiles:   strings.Join(rules.FilePatterns(), patternListSeparator),
		},
		stderr:         stderr,
		includeSummary: includeSummary,
		tokenModel:     tokenModel,
	}
}

// Handle incorporates a single walk event into the document.
func (builder *Builder) Handle(event export.Event) error {
	switch event.Kind {
	case export.EventWarning:
		if builder.stderr != nil && event.Message != "" {
			fmt.Fprintf(builder.stderr, "Warning: %s\n", event.Message)
		}
		return nil
	case export.EventEnterDirectory:
		if event.Directory == nil {
			return fmt.Errorf("output: enter event without directory")
		}
		directoryNode := &types.DirectoryNode{
			Name:         event.Directory.Name,
			Path:         event.Directory.RelativePath,
			LastModified: event.Directory.LastModified,
		}
		builder.attachDirectory(directoryNode)
		builder.stack = append(builder.stack, directoryNode)
		return nil
	case export.EventLeaveDirectory:
		if event.Directory == nil {
			return fmt.Errorf("output: leave event without directory")
		}
		if len(builder.stack) == 0 {
			return fmt.Errorf("output: directory stack underflow for %s", event.Directory.RelativePath)
		}
		top := builder.stack[len(builder.stack)-1]
		if top.Path != event.Directory.RelativePath {
			return fmt.Errorf("output: directory stack mismatch for %s", event.Directory.RelativePath)
		}
		builder.stack = builder.stack[:len(builder.stack)-1]
		return nil
	case export.EventFile:
		if event.File == nil {
			return fmt.Errorf("output: file event without node")
		}
		builder.attachFile(event.File)
		builder.files++
		builder.bytes += event.File.SizeBytes
		builder.tokens += event.File.Tokens
		return nil
	default:
		return nil
	}
}

// Document finalizes and returns the assembled repository document.
func (builder *Builder) Document() (*types.Repository, error) {
	if len(builder.stack) != 0 {
		return nil, fmt.Errorf("output: %d unclosed directories", len(builder.stack))
	}
	if builder.includeSummary {
		summary := &types.Summary{
			Files:  builder.files,
			Bytes:  builder.bytes,
			Size:   utils.FormatFileSize(builder.bytes),
			Tokens: builder.tokens,
		}
		if builder.tokens > 0 && builder.tokenModel != "" {
			summary.Model = builder.tokenModel
		}
		builder.repository.Summary = summary
	}
	return builder.repository, nil
}

func (builder *Builder) attachDirectory(directoryNode *types.DirectoryNode) {
	if len(builder.stack) == 0 {
		builder.repository.Structure.Directories = append(builder.repository.Structure.Directories, directoryNode)
		return
	}
	parent := builder.stack[len(builder.stack)-1]
	parent.Directories = append(parent.Directories, directoryNode)
}

func (builder *Builder) attachFile(fileNode *types.FileNode) {
	if len(builder.stack) == 0 {
		builder.repository.Structure.Files = append(builder.repository.Structure.Files, fileNode)
		return
	}
	parent := builder.stack[len(builder.stack)-1]
	parent.Files = append(parent.Files, fileNode)
}
