package inspectcode

// GroupIssuesByFile groups issues by resolved file path.
func GroupIssuesByFile(issues []Issue) map[string][]Issue {
	grouped := make(map[string][]Issue)
	for _, issue := range issues {
		grouped[issue.FilePath] = append(grouped[issue.FilePath], issue)
	}
	return grouped
}

// GroupIssuesByRule groups issues by rule identifier.
func GroupIssuesByRule(issues []Issue) map[string][]Issue {
	grouped := make(map[string][]Issue)
	for _, issue := range issues {
		grouped[issue.RuleID] = append(grouped[issue.RuleID], issue)
	}
	return grouped
}

// GroupIssuesByProject groups issues by owning project name.
func GroupIssuesByProject(issues []Issue) map[string][]Issue {
	grouped := make(map[string][]Issue)
	for _, issue := range issues {
		grouped[issue.Project] = append(grouped[issue.Project], issue)
	}
	return grouped
}

// GroupIssuesByPriority groups issues by normalized priority.
func GroupIssuesByPriority(issues []Issue) map[Priority][]Issue {
	grouped := make(map[Priority][]Issue)
	for _, issue := range issues {
		grouped[issue.Priority] = append(grouped[issue.Priority], issue)
	}
	return grouped
}

// FilterByMinPriority returns the issues at or above the given priority,
// preserving order. An empty min returns the input unchanged.
func FilterByMinPriority(issues []Issue, min Priority) []Issue {
	if min == "" {
		return issues
	}
	var filtered []Issue
	for _, issue := range issues {
		if issue.Priority.rank() >= min.rank() {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// CountByPriority returns a map of issue counts by priority.
func CountByPriority(issues []Issue) map[Priority]int {
	counts := make(map[Priority]int)
	for _, issue := range issues {
		counts[issue.Priority]++
	}
	return counts
}

// AffectedFiles returns the unique file paths touched by the issues,
// in first-seen order.
func AffectedFiles(issues []Issue) []string {
	seen := make(map[string]bool)
	var files []string
	for _, issue := range issues {
		if issue.FilePath != "" && !seen[issue.FilePath] {
			seen[issue.FilePath] = true
			files = append(files, issue.FilePath)
		}
	}
	return files
}

// UniqueRules returns the unique rule identifiers referenced by the issues,
// in first-seen order.
func UniqueRules(issues []Issue) []string {
	seen := make(map[string]bool)
	var rules []string
	for _, issue := range issues {
		if issue.RuleID != "" && !seen[issue.RuleID] {
			seen[issue.RuleID] = true
			rules = append(rules, issue.RuleID)
		}
	}
	return rules
}

// Stats contains summarized statistics about converted issues.
type Stats struct {
	Total       int              `json:"total"`
	ByPriority  map[Priority]int `json:"byPriority"`
	UniqueFiles int              `json:"uniqueFiles"`
	UniqueRules int              `json:"uniqueRules"`
	Projects    []string         `json:"projects"`
}

// CalculateStats calculates statistics from issues.
func CalculateStats(issues []Issue) Stats {
	stats := Stats{
		Total:      len(issues),
		ByPriority: make(map[Priority]int),
	}

	files := make(map[string]bool)
	rules := make(map[string]bool)
	projects := make(map[string]bool)

	for _, issue := range issues {
		stats.ByPriority[issue.Priority]++
		files[issue.FilePath] = true
		rules[issue.RuleID] = true
		if !projects[issue.Project] {
			projects[issue.Project] = true
			stats.Projects = append(stats.Projects, issue.Project)
		}
	}

	stats.UniqueFiles = len(files)
	stats.UniqueRules = len(rules)

	return stats
}
