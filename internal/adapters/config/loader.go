// Package config provides the configuration loader for esmd.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/esmd-dev/esmd/internal/core/domain"
)

// DefaultFilename is the config file looked up in the working directory.
const DefaultFilename = "esmd.yaml"

const defaultPort = 5173

// Loader implements ports.ConfigLoader using a YAML file. A missing file is
// not an error; defaults apply.
type Loader struct {
	Filename string
}

// NewLoader creates a Loader for the default filename.
func NewLoader() *Loader {
	return &Loader{Filename: DefaultFilename}
}

// esmdFile represents the structure of the esmd.yaml configuration file.
type esmdFile struct {
	Root      string   `yaml:"root"`
	PublicDir string   `yaml:"publicDir"`
	Port      int      `yaml:"port"`
	Entries   []string `yaml:"entries"`

	Server struct {
		FS struct {
			Allow []string `yaml:"allow"`
		} `yaml:"fs"`
		Headers map[string]string `yaml:"headers"`
	} `yaml:"server"`

	OptimizeDeps struct {
		Include []string `yaml:"include"`
		Exclude []string `yaml:"exclude"`
	} `yaml:"optimizeDeps"`

	Sourcemap struct {
		IgnorePrefixes []string `yaml:"ignorePrefixes"`
	} `yaml:"sourcemap"`

	SSR struct {
		SkipTransform bool `yaml:"skipTransform"`
	} `yaml:"ssr"`
}

// Load reads the configuration from the given working directory and resolves
// all paths to absolute ones.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	var file esmdFile

	path := filepath.Join(cwd, l.Filename)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	return resolve(cwd, &file)
}

func resolve(cwd string, file *esmdFile) (*domain.Config, error) {
	root := file.Root
	if root == "" {
		root = cwd
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(cwd, root)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve project root")
	}

	publicDir := file.PublicDir
	if publicDir == "" {
		publicDir = "public"
	}
	if !filepath.IsAbs(publicDir) {
		publicDir = filepath.Join(root, publicDir)
	}

	port := file.Port
	if port == 0 {
		port = defaultPort
	}

	entries := file.Entries
	if len(entries) == 0 {
		entries = []string{"index.html"}
	}

	allow := make([]string, 0, len(file.Server.FS.Allow))
	for _, dir := range file.Server.FS.Allow {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		allow = append(allow, dir)
	}

	return &domain.Config{
		Root:                    root,
		PublicDir:               publicDir,
		Port:                    port,
		Entries:                 entries,
		FSAllow:                 allow,
		OptimizeInclude:         file.OptimizeDeps.Include,
		OptimizeExclude:         file.OptimizeDeps.Exclude,
		SourcemapIgnorePrefixes: file.Sourcemap.IgnorePrefixes,
		SkipSSRTransform:        file.SSR.SkipTransform,
		Headers:                 file.Server.Headers,
	}, nil
}
