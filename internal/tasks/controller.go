package tasks

import (
	"strings"

	"github.com/google/uuid"
)

// ViewPort is whatever draws the list and owns the entry controls.
type ViewPort interface {
	RenderList(visible []Task, progress Progress)
	ReadInput() string
	ReadCategory() string
	HighlightFilter(f Filter)
}

// Controller holds the task list and current filter. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Controller struct {
	list     []Task
	filter   Filter
	snapshot *Snapshot
	view     ViewPort
	newID    func() string
}

type Option func(*Controller)

// WithIDFunc replaces the random UUID generator.
func WithIDFunc(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

func NewController(snapshot *Snapshot, view ViewPort, opts ...Option) *Controller {
	c := &Controller{
		list:     []Task{},
		filter:   FilterAll,
		snapshot: snapshot,
		view:     view,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the in-memory list with the persisted snapshot and
// resets the filter to all.
func (c *Controller) Load() {
	c.list = c.snapshot.Load()
	c.filter = FilterAll
	c.Render()
}

// Tasks returns a copy of the full list, newest first.
func (c *Controller) Tasks() []Task {
	out := make([]Task, len(c.list))
	copy(out, c.list)
	return out
}

func (c *Controller) Filter() Filter {
	return c.filter
}

func (c *Controller) Visible() []Task {
	return VisibleTasks(c.list, c.filter)
}

func (c *Controller) Progress() Progress {
	return ComputeProgress(c.list)
}

// Add prepends a new task. Blank text is ignored and returns a nil Task.
func (c *Controller) Add(text, category string) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}
	t := Task{
		ID:       c.newID(),
		Text:     text,
		Category: category,
	}
	c.list = append([]Task{t}, c.list...)
	return &t, c.commit()
}

// Submit adds a task from the view's current input and category.
func (c *Controller) Submit() (*Task, error) {
	return c.Add(c.view.ReadInput(), c.view.ReadCategory())
}

func (c *Controller) Toggle(id string) error {
	i := c.indexOf(id)
	if i < 0 {
		return nil
	}
	c.list[i].Completed = !c.list[i].Completed
	return c.commit()
}

func (c *Controller) Remove(id string) error {
	i := c.indexOf(id)
	if i < 0 {
		return nil
	}
	c.list = append(c.list[:i:i], c.list[i+1:]...)
	return c.commit()
}

func (c *Controller) SetFilter(f Filter) {
	c.filter = f
	c.Render()
}

func (c *Controller) Render() {
	c.view.HighlightFilter(c.filter)
	c.view.RenderList(c.Visible(), c.Progress())
}

// commit persists the full list, then redraws. The redraw happens even
// when the write fails so the screen matches memory.
func (c *Controller) commit() error {
	err := c.snapshot.Save(c.list)
	c.Render()
	return err
}

func (c *Controller) indexOf(id string) int {
	for i, t := range c.list {
		if t.ID == id {
			return i
		}
	}
	return -1
}
