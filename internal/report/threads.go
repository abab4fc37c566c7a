package report

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report/summary"
	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/semaphore"
)

var reDigit = regexp.MustCompile(`\d`)

// Thread is a build thread prepared for the report.
type Thread struct {
	Number      int            `yaml:"number"`
	CommandName string         `yaml:"command"`
	Output      string         `yaml:"-"`
	Downloaded  bool           `yaml:"downloaded"`
	Format      string         `yaml:"format,omitempty"`
	Lines       []string       `yaml:"lines,omitempty"`
	Totals      summary.Totals `yaml:"totals"`
}

// Matched reports whether a summary line was found in the thread output.
func (t *Thread) Matched() bool {
	return len(t.Lines) > 0
}

// ThreadNumber concatenates every digit of a command name and parses the
// result, "THREAD=1 rake test2" is 12. Names without digits are 0.
func ThreadNumber(name string) int {
	digits := strings.Join(reDigit.FindAllString(name, -1), "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		log.Debugf("unable to parse thread number from %q: %v", name, err)
		return 0
	}
	return n
}

// SortThreads returns the threads having at least one command, ordered by the
// number embedded in their last command name. Ties keep the build log order.
func SortThreads(threads []semaphore.Thread) []*Thread {
	sorted := make([]*Thread, 0, len(threads))
	for i := range threads {
		cmd, ok := threads[i].LastCommand()
		if !ok {
			log.Warnf("skipping thread %d: no commands", threads[i].Number)
			continue
		}
		sorted = append(sorted, &Thread{
			Number:      ThreadNumber(cmd.Name),
			CommandName: cmd.Name,
			Output:      cmd.Output,
		})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})
	return sorted
}
