// Package querykeys builds the hierarchical cache keys shared by every
// fetchable query. A domain key is a strict prefix of every more specific
// key in that domain, so invalidating the prefix reaches every descendant
// entry. New builders must preserve that property.
package querykeys

import (
	"strings"

	"github.com/reelsmith/dashboard-go/pkg/enums"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

// Key is an ordered tuple: domain, optional qualifier, trailing
// discriminators.
type Key []string

// String renders the key for storage backends and logs.
func (k Key) String() string {
	return strings.Join(k, "/")
}

// Domain returns the leading resource-domain segment.
func (k Key) Domain() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// Equal reports segment-wise equality.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix matches the leading segments of k.
// Matching is per segment, so "video-projects" never matches
// "video-projects-archive".
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// filterSegment canonicalizes a filter object; structurally equal filters
// produce identical segments regardless of construction order.
func filterSegment(filters platform.Filters) string {
	return filters.Encode()
}

func Auth() Key {
	return Key{"auth"}
}

func AuthMe() Key {
	return Key{"auth", "me"}
}

func Users() Key {
	return Key{"users"}
}

func UserDetail(id string) Key {
	return Key{"users", "detail", id}
}

func UserList(filters platform.Filters) Key {
	return Key{"users", "list", filterSegment(filters)}
}

func VideoProjects() Key {
	return Key{"video-projects"}
}

func VideoProjectDetail(id string) Key {
	return Key{"video-projects", "detail", id}
}

func VideoProjectList(filters platform.Filters) Key {
	return Key{"video-projects", "list", filterSegment(filters)}
}

func VideoProjectsByUser(userID string) Key {
	return Key{"video-projects", "user", userID}
}

func ProcessingSteps() Key {
	return Key{"processing-steps"}
}

func ProcessingStepDetail(id string) Key {
	return Key{"processing-steps", "detail", id}
}

func ProcessingStepList(filters platform.Filters) Key {
	return Key{"processing-steps", "list", filterSegment(filters)}
}

func ProcessingStepsByProject(projectID string) Key {
	return Key{"processing-steps", "project", projectID}
}

func AuditRecords() Key {
	return Key{"api-responses"}
}

func AuditRecordDetail(id string) Key {
	return Key{"api-responses", "detail", id}
}

func AuditRecordList(filters platform.Filters) Key {
	return Key{"api-responses", "list", filterSegment(filters)}
}

func AuditRecordsByProject(projectID string) Key {
	return Key{"api-responses", "project", projectID}
}

func Dashboard() Key {
	return Key{"dashboard"}
}

func DashboardOverview() Key {
	return Key{"dashboard", "overview"}
}

func DashboardStats() Key {
	return Key{"dashboard", "stats"}
}

func DashboardChart(chartType enums.ChartType) Key {
	return Key{"dashboard", "charts", chartType.String()}
}
