package codeforge

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// TemplateDescriptor is the parsed metadata of one template: what to compile,
// which files to prepend, and where the result goes.
//
// The engine never mutates a descriptor.
type TemplateDescriptor struct {
	// SourcePath is the path or store name the template came from.
	SourcePath string

	// SourceText is the template body.
	SourceText string

	// IncludeFiles lists the include files in the order they are prepended.
	IncludeFiles []string

	// IncludeContents holds the already read contents of IncludeFiles,
	// index for index.
	IncludeContents []string

	// OutputPath is where the generated text is written. Empty means the
	// text is only returned.
	OutputPath string

	// Header prepends the generated-file banner.
	Header bool

	// InputFolder is the directory partial names are resolved against.
	InputFolder string
}

// Name returns the name the main template is cached under: the source path,
// or a content hash for descriptors built from text alone.
func (d *TemplateDescriptor) Name() string {
	if d.SourcePath != "" {
		return d.SourcePath
	}
	return InlineName(d.SourceText)
}

// Validate checks that the descriptor can be compiled.
func (d *TemplateDescriptor) Validate() error {
	if d == nil {
		return NewDescriptorError(ErrMsgDescriptorNil, "", nil)
	}
	if d.SourcePath == "" && d.SourceText == "" {
		return NewDescriptorError(ErrMsgDescriptorNoSource, "", nil)
	}
	if len(d.IncludeFiles) != len(d.IncludeContents) {
		return NewDescriptorError(ErrMsgIncludeCountMismatch, d.SourcePath, nil)
	}
	return nil
}

// AssembleSource returns the text handed to the compiler: every include's
// contents in list order, followed by the template body.
func (d *TemplateDescriptor) AssembleSource() string {
	if len(d.IncludeContents) == 0 {
		return d.SourceText
	}

	var b strings.Builder
	for _, content := range d.IncludeContents {
		b.WriteString(content)
	}
	b.WriteString(d.SourceText)
	return b.String()
}

// descriptorFrontmatter is the YAML header of a template file.
type descriptorFrontmatter struct {
	Output      string   `yaml:"output"`
	Header      bool     `yaml:"header"`
	Includes    []string `yaml:"includes"`
	InputFolder string   `yaml:"input_folder"`
}

var frontmatterKeys = map[string]struct{}{
	FrontmatterKeyOutput:      {},
	FrontmatterKeyHeader:      {},
	FrontmatterKeyIncludes:    {},
	FrontmatterKeyInputFolder: {},
}

func frontmatterKeyNames() []string {
	names := make([]string, 0, len(frontmatterKeys))
	for name := range frontmatterKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseDescriptor parses a template document: an optional YAML frontmatter
// block delimited by --- lines, followed by the template body.
//
// Relative output, include and input folder paths are resolved against the
// directory of sourcePath. Without frontmatter the whole document is the body.
// IncludeContents is left empty; LoadDescriptor fills it.
func ParseDescriptor(sourcePath string, data []byte) (*TemplateDescriptor, error) {
	fmYAML, body, err := splitFrontmatter(sourcePath, string(data))
	if err != nil {
		return nil, err
	}

	desc := &TemplateDescriptor{
		SourcePath: sourcePath,
		SourceText: body,
	}
	if fmYAML == "" {
		return desc, nil
	}

	fm, err := decodeFrontmatter(sourcePath, fmYAML)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(sourcePath)
	desc.OutputPath = resolveRelative(baseDir, fm.Output)
	desc.Header = fm.Header
	desc.InputFolder = resolveRelative(baseDir, fm.InputFolder)
	for _, inc := range fm.Includes {
		desc.IncludeFiles = append(desc.IncludeFiles, resolveRelative(baseDir, inc))
	}
	return desc, nil
}

// splitFrontmatter separates the YAML block from the body. A document that
// does not start with the delimiter has no frontmatter.
func splitFrontmatter(sourcePath, content string) (string, string, error) {
	content = strings.TrimPrefix(content, utf8BOM)
	if !strings.HasPrefix(content, YAMLFrontmatterDelimiter) {
		return "", content, nil
	}

	afterOpening := trimLeadingNewline(content[len(YAMLFrontmatterDelimiter):])

	var fmYAML, rest string
	if strings.HasPrefix(afterOpening, YAMLFrontmatterDelimiter) {
		rest = afterOpening[len(YAMLFrontmatterDelimiter):]
	} else {
		closeIdx := strings.Index(afterOpening, "\n"+YAMLFrontmatterDelimiter)
		if closeIdx == -1 {
			return "", "", NewDescriptorError(ErrMsgFrontmatterUnclosed, sourcePath, nil)
		}
		fmYAML = afterOpening[:closeIdx]
		rest = afterOpening[closeIdx+len("\n"+YAMLFrontmatterDelimiter):]
	}

	if len(fmYAML) > DefaultMaxFrontmatterSize {
		return "", "", NewDescriptorError(ErrMsgFrontmatterTooLarge, sourcePath, nil)
	}
	return fmYAML, trimLeadingNewline(rest), nil
}

func trimLeadingNewline(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "\n")
}

// decodeFrontmatter rejects unknown keys by name before decoding the block.
func decodeFrontmatter(sourcePath, fmYAML string) (*descriptorFrontmatter, error) {
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(fmYAML), &raw); err != nil {
		return nil, NewDescriptorError(ErrMsgFrontmatterParse, sourcePath, err)
	}

	unknown := make([]string, 0)
	for key := range raw {
		if _, ok := frontmatterKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, NewFrontmatterKeyError(sourcePath, unknown[0], frontmatterKeyNames())
	}

	var fm descriptorFrontmatter
	if len(raw) == 0 {
		return &fm, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(fmYAML)))
	dec.KnownFields(true)
	if err := dec.Decode(&fm); err != nil {
		return nil, NewDescriptorError(ErrMsgFrontmatterParse, sourcePath, err)
	}
	return &fm, nil
}

func resolveRelative(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadDescriptor reads and parses the template file at path, then reads its
// include files in order.
func LoadDescriptor(path string) (*TemplateDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDescriptorError(ErrMsgDescriptorRead, path, err)
	}

	desc, err := ParseDescriptor(path, data)
	if err != nil {
		return nil, err
	}

	for _, inc := range desc.IncludeFiles {
		content, err := os.ReadFile(inc)
		if err != nil {
			return nil, NewIncludeReadError(path, inc, err)
		}
		desc.IncludeContents = append(desc.IncludeContents, string(content))
	}
	return desc, nil
}

// LoadDescriptorFromStore loads the template stored under name. Include
// entries are store names looked up in the same store and are not resolved
// against any directory. Output and input folder paths are kept as written.
func LoadDescriptorFromStore(ctx context.Context, store SourceStore, name string) (*TemplateDescriptor, error) {
	src, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	fmYAML, body, err := splitFrontmatter(name, src.Content)
	if err != nil {
		return nil, err
	}

	desc := &TemplateDescriptor{
		SourcePath: name,
		SourceText: body,
	}
	if fmYAML == "" {
		return desc, nil
	}

	fm, err := decodeFrontmatter(name, fmYAML)
	if err != nil {
		return nil, err
	}
	desc.OutputPath = fm.Output
	desc.Header = fm.Header
	desc.InputFolder = fm.InputFolder

	for _, inc := range fm.Includes {
		incSrc, err := store.Get(ctx, inc)
		if err != nil {
			return nil, NewIncludeReadError(name, inc, err)
		}
		desc.IncludeFiles = append(desc.IncludeFiles, inc)
		desc.IncludeContents = append(desc.IncludeContents, incSrc.Content)
	}
	return desc, nil
}
