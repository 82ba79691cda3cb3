package sample

import (
	"container/list"
	"encoding/json"
	"fmt"
	"sync"

	"firebase-web/internal/web/domain/model"

	"github.com/google/cel-go/cel"
)

// DefaultFilterCacheSize is how many compiled filters Filters keeps by default.
const DefaultFilterCacheSize = 256

// Filters compiles target filters. Expressions see the entity as `state` (a map)
// and its identifier as `id`, and must evaluate to a bool.
// Compiled programs are cached per expression, least recently used first out.
type Filters struct {
	env *cel.Env

	mu       sync.Mutex
	maxSize  int
	programs map[string]*list.Element
	order    *list.List
}

type cachedProgram struct {
	expression string
	program    cel.Program
}

// NewFilters creates the CEL environment for target filters. A cacheSize of zero
// or less uses DefaultFilterCacheSize.
func NewFilters(cacheSize int) (*Filters, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultFilterCacheSize
	}
	env, err := cel.NewEnv(
		cel.Variable("state", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("id", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Filters{
		env:      env,
		maxSize:  cacheSize,
		programs: make(map[string]*list.Element),
		order:    list.New(),
	}, nil
}

// Cached returns the number of compiled programs held.
func (f *Filters) Cached() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.programs)
}

func (f *Filters) cached(expression string) (cel.Program, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	element, ok := f.programs[expression]
	if !ok {
		return nil, false
	}
	f.order.MoveToFront(element)
	return element.Value.(*cachedProgram).program, true
}

func (f *Filters) store(expression string, program cel.Program) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if element, ok := f.programs[expression]; ok {
		f.order.MoveToFront(element)
		return
	}
	f.programs[expression] = f.order.PushFront(&cachedProgram{expression: expression, program: program})
	for len(f.programs) > f.maxSize {
		oldest := f.order.Back()
		f.order.Remove(oldest)
		delete(f.programs, oldest.Value.(*cachedProgram).expression)
	}
}

func (f *Filters) compile(expression string) (cel.Program, error) {
	if program, ok := f.cached(expression); ok {
		return program, nil
	}

	ast, issues := f.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) && !ast.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter must evaluate to bool, got %s", ast.OutputType())
	}
	program, err := f.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}
	f.store(expression, program)
	return program, nil
}

// matcher decides whether an entity is selected by a target.
type matcher struct {
	entityType string
	ids        map[string]bool
	program    cel.Program
}

func (f *Filters) matcher(target model.Target) (*matcher, error) {
	m := &matcher{entityType: target.Type}
	if !target.IncludeAll && len(target.IDs) > 0 {
		m.ids = make(map[string]bool, len(target.IDs))
		for _, id := range target.IDs {
			m.ids[id] = true
		}
	}
	if target.Filter != "" {
		program, err := f.compile(target.Filter)
		if err != nil {
			return nil, err
		}
		m.program = program
	}
	return m, nil
}

// matches evaluates the target against entity. Evaluation errors, such as a
// missing state field, count as no match.
func (m *matcher) matches(entity model.EntityState) bool {
	if entity.Type != m.entityType {
		return false
	}
	if m.ids != nil && !m.ids[entity.ID] {
		return false
	}
	if m.program == nil {
		return true
	}

	state := map[string]interface{}{}
	if len(entity.State) > 0 {
		if err := json.Unmarshal(entity.State, &state); err != nil {
			return false
		}
	}
	out, _, err := m.program.Eval(map[string]interface{}{"state": state, "id": entity.ID})
	if err != nil {
		return false
	}
	result, ok := out.Value().(bool)
	return ok && result
}
