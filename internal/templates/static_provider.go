package templates

import (
	"context"
	"sync"

	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

// StaticProvider serves template definitions from an in-memory registry. It
// backs tests and embedded deployments; production hosts typically adapt their
// file-based theme loader to the same contract.
type StaticProvider struct {
	mu          sync.RWMutex
	definitions map[string]*interfaces.TemplateDefinition
	paths       map[string]string
}

// NewStaticProvider constructs an empty provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		definitions: make(map[string]*interfaces.TemplateDefinition),
		paths:       make(map[string]string),
	}
}

// Register validates and stores a definition under the given template name.
func (p *StaticProvider) Register(name string, def *interfaces.TemplateDefinition) error {
	if err := ValidateDefinition(def); err != nil {
		return err
	}
	key := NormalizeTemplateName(name)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.definitions[key] = def
	return nil
}

// RegisterRaw parses raw JSON and stores the decoded definition.
func (p *StaticProvider) RegisterRaw(name string, raw []byte) error {
	def, err := ParseDefinition(raw)
	if err != nil {
		return err
	}
	key := NormalizeTemplateName(name)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.definitions[key] = def
	return nil
}

// SetPath records the render path reported for a template.
func (p *StaticProvider) SetPath(name, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths[NormalizeTemplateName(name)] = path
}

// Definition implements interfaces.TemplateProvider.
func (p *StaticProvider) Definition(_ context.Context, templateName string) (*interfaces.TemplateDefinition, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	def, ok := p.definitions[NormalizeTemplateName(templateName)]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return def, nil
}

// TemplatePath implements interfaces.TemplateProvider.
func (p *StaticProvider) TemplatePath(_ context.Context, templateName string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	key := NormalizeTemplateName(templateName)
	if path, ok := p.paths[key]; ok {
		return path, nil
	}
	if _, ok := p.definitions[key]; ok {
		return key, nil
	}
	return "", ErrTemplateNotFound
}
