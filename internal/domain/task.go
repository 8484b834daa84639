package domain

// Task is a single todo item
type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// NewTask creates a task that is not yet completed
func NewTask(id int64, text string) Task {
	return Task{
		ID:        id,
		Text:      text,
		Completed: false,
	}
}

// CreateTask is the payload for creating a task
type CreateTask struct {
	Text string `json:"text" yaml:"text"`
}

// UpdateTask is a partial update. Nil fields are left unchanged.
type UpdateTask struct {
	Text      *string `json:"text,omitempty" yaml:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty" yaml:"completed,omitempty"`
}

// IsEmpty reports whether the update carries no fields
func (u UpdateTask) IsEmpty() bool {
	return u.Text == nil && u.Completed == nil
}

// Apply returns t with the fields present in u applied
func (u UpdateTask) Apply(t Task) Task {
	if u.Text != nil {
		t.Text = *u.Text
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	return t
}
