package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/promptmesh/core"
	"github.com/hupe1980/promptmesh/logging"
)

const (
	promptExtension = ".prompt"
	partialPrefix   = "_"
)

// DirStore is a file-system based prompt store. Prompts live as .prompt
// files under a root directory; partials carry a "_" filename prefix and
// variants a ".variant" suffix before the extension.
type DirStore struct {
	root   string
	logger logging.Logger
}

// DirStoreOptions configures a DirStore.
type DirStoreOptions struct {
	// Logger receives store operation logs. Defaults to NoOpLogger.
	Logger logging.Logger
}

// NewDirStore creates a DirStore rooted at the given directory. The root
// path is resolved to an absolute path.
func NewDirStore(root string, optFns ...func(o *DirStoreOptions)) (*DirStore, error) {
	opts := DirStoreOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &DirStore{root: absRoot, logger: opts.Logger}, nil
}

// Root returns the absolute root directory of the store.
func (ds *DirStore) Root() string {
	return ds.root
}

// verifyPathContainment validates the name and resolves it to a cleaned
// absolute path guaranteed to live under the store root.
func (ds *DirStore) verifyPathContainment(name string) (string, error) {
	if err := ValidatePromptName(name); err != nil {
		return "", err
	}

	cleaned := filepath.Clean(filepath.Join(ds.root, name))
	if !strings.HasPrefix(cleaned, ds.root) {
		return "", core.NewPromptError(core.ErrInvalidName,
			fmt.Sprintf("path traversal attempt detected: %s", name))
	}
	return cleaned, nil
}

// List enumerates all prompts in the store that match the given options. It
// traverses the directory tree recursively, skipping partials and hidden
// directories. Results are sorted by name then variant.
func (ds *DirStore) List(options ListOptions) (ListResult[core.PromptRef], error) {
	var prompts []core.PromptRef

	err := ds.walkPromptFiles(func(name, fileName string) {
		if strings.HasPrefix(fileName, partialPrefix) {
			return
		}
		promptName, variant := splitVariant(name)
		if options.Variant != "" && variant != options.Variant {
			return
		}
		prompts = append(prompts, core.PromptRef{Name: promptName, Variant: variant})
	})
	if err != nil {
		return ListResult[core.PromptRef]{}, err
	}

	sort.Slice(prompts, func(i, j int) bool {
		if prompts[i].Name == prompts[j].Name {
			return prompts[i].Variant < prompts[j].Variant
		}
		return prompts[i].Name < prompts[j].Name
	})

	return paginate(prompts, options), nil
}

// ListPartials enumerates all partials in the store that match the given
// options. The "_" filename prefix is stripped from the exposed names.
func (ds *DirStore) ListPartials(options ListOptions) (ListResult[core.PartialRef], error) {
	var partials []core.PartialRef

	err := ds.walkPromptFiles(func(name, fileName string) {
		if !strings.HasPrefix(fileName, partialPrefix) {
			return
		}
		cleanName := strings.TrimPrefix(fileName, partialPrefix)
		if dir := filepath.Dir(name); dir != "." {
			cleanName = filepath.ToSlash(dir) + "/" + cleanName
		}
		partialName, variant := splitVariant(cleanName)
		if options.Variant != "" && variant != options.Variant {
			return
		}
		partials = append(partials, core.PartialRef{Name: partialName, Variant: variant})
	})
	if err != nil {
		return ListResult[core.PartialRef]{}, err
	}

	sort.Slice(partials, func(i, j int) bool {
		if partials[i].Name == partials[j].Name {
			return partials[i].Variant < partials[j].Variant
		}
		return partials[i].Name < partials[j].Name
	})

	return paginate(partials, options), nil
}

// walkPromptFiles visits every .prompt file under the root, calling fn with
// the extension-trimmed relative name and the bare file name. Hidden
// directories are skipped.
func (ds *DirStore) walkPromptFiles(fn func(name, fileName string)) error {
	return filepath.WalkDir(ds.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), promptExtension) {
			return nil
		}

		relPath, err := filepath.Rel(ds.root, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(relPath), promptExtension)
		fn(name, filepath.Base(name))
		return nil
	})
}

// splitVariant separates "name.variant" into its parts. Names without a dot
// have no variant.
func splitVariant(name string) (string, string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

func paginate[T any](items []T, options ListOptions) ListResult[T] {
	result := ListResult[T]{Items: items}
	if options.Limit > 0 && len(result.Items) > options.Limit {
		result.Cursor = "more"
		result.Items = result.Items[:options.Limit]
	}
	return result
}

// Load retrieves a prompt by name, preferring a variant-specific file when
// a variant is requested. A requested version that does not match the
// loaded content is an error.
func (ds *DirStore) Load(name string, options LoadOptions) (core.PromptData, error) {
	filePath, err := ds.verifyPathContainment(name)
	if err != nil {
		return core.PromptData{}, err
	}

	var possiblePaths []string
	if options.Variant != "" {
		possiblePaths = append(possiblePaths, filePath+"."+options.Variant+promptExtension)
	}
	possiblePaths = append(possiblePaths, filePath+promptExtension)

	source, loadedPath, err := ds.readFirst(possiblePaths)
	if err != nil {
		return core.PromptData{}, err
	}
	if loadedPath == "" {
		return core.PromptData{}, core.NewPromptError(core.ErrNotFound,
			fmt.Sprintf("prompt not found: %s", name))
	}

	version := CalculateVersion(source)
	if options.Version != "" && options.Version != version {
		return core.PromptData{}, core.NewPromptError(core.ErrNotFound,
			fmt.Sprintf("version %s of prompt %s not found (current is %s)", options.Version, name, version))
	}

	variant := variantFromPath(ds.root, loadedPath, name)
	ds.logger.Debug("Loaded prompt", "name", name, "variant", variant, "version", version)

	return core.PromptData{
		PromptRef: core.PromptRef{Name: name, Variant: variant, Version: version},
		Source:    source,
	}, nil
}

// LoadPartial retrieves a partial by name, handling the "_" filename prefix
// convention.
func (ds *DirStore) LoadPartial(name string, options LoadOptions) (core.PartialData, error) {
	if err := ValidatePromptName(name); err != nil {
		return core.PartialData{}, err
	}

	dir := filepath.Dir(name)
	base := filepath.Base(name)
	searchBase := filepath.Join(ds.root, dir, partialPrefix+base)

	var possiblePaths []string
	if options.Variant != "" {
		possiblePaths = append(possiblePaths, searchBase+"."+options.Variant+promptExtension)
	}
	possiblePaths = append(possiblePaths, searchBase+promptExtension)

	contained := possiblePaths[:0]
	for _, p := range possiblePaths {
		if strings.HasPrefix(filepath.Clean(p), ds.root) {
			contained = append(contained, p)
		}
	}

	source, loadedPath, err := ds.readFirst(contained)
	if err != nil {
		return core.PartialData{}, err
	}
	if loadedPath == "" {
		return core.PartialData{}, core.NewPromptError(core.ErrNotFound,
			fmt.Sprintf("partial not found: %s", name))
	}

	version := CalculateVersion(source)
	if options.Version != "" && options.Version != version {
		return core.PartialData{}, core.NewPromptError(core.ErrNotFound,
			fmt.Sprintf("version %s of partial %s not found (current is %s)", options.Version, name, version))
	}

	expectedBase := filepath.ToSlash(filepath.Join(dir, partialPrefix+base))
	variant := variantFromPath(ds.root, loadedPath, expectedBase)
	ds.logger.Debug("Loaded partial", "name", name, "variant", variant, "version", version)

	return core.PartialData{
		PartialRef: core.PartialRef{Name: name, Variant: variant, Version: version},
		Source:     source,
	}, nil
}

// readFirst returns the contents of the first existing path. A missing file
// is not an error; all paths missing yields an empty loaded path.
func (ds *DirStore) readFirst(paths []string) (source, loadedPath string, err error) {
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err == nil {
			return string(b), p, nil
		}
		if !os.IsNotExist(err) {
			return "", "", err
		}
	}
	return "", "", nil
}

// variantFromPath derives the variant suffix by comparing the loaded file
// path against the requested name.
func variantFromPath(root, loadedPath, name string) string {
	relPath, err := filepath.Rel(root, loadedPath)
	if err != nil {
		return ""
	}
	trimmed := strings.TrimSuffix(filepath.ToSlash(relPath), promptExtension)
	if after, ok := strings.CutPrefix(trimmed, name+"."); ok {
		return after
	}
	return ""
}

// Save persists a prompt, creating parent directories as needed.
func (ds *DirStore) Save(prompt core.PromptData) error {
	pathName := prompt.Name
	if prompt.Variant != "" {
		pathName += "." + prompt.Variant
	}

	filePath, err := ds.verifyPathContainment(pathName)
	if err != nil {
		return err
	}

	fullPath := filePath + promptExtension
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	if err := os.WriteFile(fullPath, []byte(prompt.Source), 0644); err != nil {
		return err
	}
	ds.logger.Debug("Saved prompt", "name", prompt.Name, "variant", prompt.Variant)
	return nil
}

// Delete removes a prompt file from the store.
func (ds *DirStore) Delete(name string, options DeleteOptions) error {
	pathName := name
	if options.Variant != "" {
		pathName += "." + options.Variant
	}

	filePath, err := ds.verifyPathContainment(pathName)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath + promptExtension); err != nil {
		if os.IsNotExist(err) {
			return core.NewPromptError(core.ErrNotFound,
				fmt.Sprintf("prompt not found: %s", name))
		}
		return err
	}
	ds.logger.Debug("Deleted prompt", "name", name, "variant", options.Variant)
	return nil
}
