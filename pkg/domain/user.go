package domain

// Item is a single task or goal with derived classification fields.
// Category and Difficulty are assigned by the matching pipeline; Difficulty
// starts at the neutral middle of the 1-5 range and is refined in two passes.
type Item struct {
	Title      string
	TimeTaken  float64 // minutes
	Completed  bool
	Category   string
	Difficulty float64
}

// User holds one user's activity for a single batch. Derived metrics live in
// the pipeline, not here; the struct only carries what the caller supplied.
type User struct {
	ID         string
	Country    string
	TimeZone   string
	StreakDays int
	Items      []Item
}

// Group references batch users by id. Members not present in the batch are
// ignored when the group vector is built.
type Group struct {
	ID      string
	Members []string
}

// TaskInput is a raw task as submitted by the caller
type TaskInput struct {
	Text      string  `json:"text"`
	TimeTaken float64 `json:"timeTaken"`
	Checked   bool    `json:"checked"`
}

// GoalInput is a raw goal as submitted by the caller
type GoalInput struct {
	Title            string  `json:"title"`
	TimeTaken        float64 `json:"timeTaken"`
	WorkoutCompleted bool    `json:"workoutCompleted"`
}

// UserInput is the wire form of a user in a match request
type UserInput struct {
	ID         string      `json:"id"`
	Tasks      []TaskInput `json:"tasks"`
	Goals      []GoalInput `json:"goals"`
	StreakDays int         `json:"streak_days"`
	Country    string      `json:"Country"`
	TimeZone   string      `json:"time_zone"`
}

// GroupInput is the wire form of a group in a group match request
type GroupInput struct {
	ID      string   `json:"id"`
	Members []string `json:"members"`
}

// Normalize flattens tasks and goals into a single item list. Difficulty is
// seeded with 3 so the first expected-time lookup has a valid bucket.
func (u UserInput) Normalize() User {
	user := User{
		ID:         u.ID,
		Country:    u.Country,
		TimeZone:   u.TimeZone,
		StreakDays: u.StreakDays,
		Items:      make([]Item, 0, len(u.Tasks)+len(u.Goals)),
	}
	for _, t := range u.Tasks {
		user.Items = append(user.Items, Item{Title: t.Text, TimeTaken: t.TimeTaken, Completed: t.Checked, Difficulty: 3})
	}
	for _, g := range u.Goals {
		user.Items = append(user.Items, Item{Title: g.Title, TimeTaken: g.TimeTaken, Completed: g.WorkoutCompleted, Difficulty: 3})
	}
	return user
}

// NormalizeUsers converts a request's user list to batch users
func NormalizeUsers(inputs []UserInput) []User {
	users := make([]User, 0, len(inputs))
	for _, in := range inputs {
		users = append(users, in.Normalize())
	}
	return users
}

// NormalizeGroups converts a request's group list to batch groups
func NormalizeGroups(inputs []GroupInput) []Group {
	groups := make([]Group, 0, len(inputs))
	for _, in := range inputs {
		groups = append(groups, Group{ID: in.ID, Members: in.Members})
	}
	return groups
}
