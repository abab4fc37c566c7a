package semaphore

// Project is an item returned by the API endpoint /projects
type Project struct {
	ID        int64  `json:"id"`
	HashID    string `json:"hash_id"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Branch is an item returned by the API endpoint /projects/{hash_id}/branches
type Branch struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BranchURL string `json:"branch_url"`
}

// Commit is the commit information attached to a build.
type Commit struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
}

// BuildStats is the payload returned by the API endpoint
// /projects/{hash_id}/{branch_id}/builds/{number}
type BuildStats struct {
	Number      int      `json:"number"`
	ProjectName string   `json:"project_name"`
	BranchName  string   `json:"branch_name"`
	Result      string   `json:"result"`
	BuildURL    string   `json:"build_url"`
	StartedAt   string   `json:"started_at"`
	FinishedAt  string   `json:"finished_at"`
	Commits     []Commit `json:"commits"`
}

// CommitURL returns the URL of the first commit of the build, or an empty
// string when the build has no commits.
func (bs *BuildStats) CommitURL() string {
	if bs == nil || len(bs.Commits) == 0 {
		return ""
	}
	return bs.Commits[0].URL
}

// Command is a single command executed by a thread. Output holds the console
// output of the command, which may be HTML.
type Command struct {
	Name       string `json:"name"`
	Result     string `json:"result"`
	Output     string `json:"output"`
	StartTime  string `json:"start_time"`
	FinishTime string `json:"finish_time"`
	Duration   string `json:"duration"`
}

// Thread is one parallel executor of a build.
type Thread struct {
	Number   int       `json:"number"`
	Commands []Command `json:"commands"`
}

// LastCommand returns the last command executed by the thread.
func (t *Thread) LastCommand() (*Command, bool) {
	if len(t.Commands) == 0 {
		return nil, false
	}
	return &t.Commands[len(t.Commands)-1], true
}

// BuildLog is the payload returned by the API endpoint
// /projects/{hash_id}/{branch_id}/builds/{number}/log
type BuildLog struct {
	Threads      []Thread `json:"threads"`
	BuildInfoURL string   `json:"build_info_url"`
}
