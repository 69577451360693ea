package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/user"
)

var (
	ErrNoOfficerMatch    = errors.New("no assignable officer matches")
	ErrAmbiguousAssignee = errors.New("officer name is ambiguous")
)

// ResolveAssignee maps an --assign-to reference to a user id. Empty and
// "all" mean every officer and yield nil. Numeric references are taken as
// ids. Anything else must equal one officer's name or email, or fuzzily
// match exactly one name.
func ResolveAssignee(officers []user.User, ref string) (*int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, "all") {
		return nil, nil
	}
	if id, err := strconv.Atoi(ref); err == nil {
		return &id, nil
	}

	for _, o := range officers {
		if strings.EqualFold(o.Name, ref) || strings.EqualFold(o.Email, ref) {
			id := o.ID
			return &id, nil
		}
	}

	names := make([]string, len(officers))
	for i, o := range officers {
		names[i] = o.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(ref, names)
	if len(ranks) == 0 {
		return nil, errors.Wrapf(ErrNoOfficerMatch, "%q", ref)
	}
	sort.Sort(ranks)
	if len(ranks) > 1 {
		candidates := make([]string, 0, len(ranks))
		for _, r := range ranks {
			candidates = append(candidates, fmt.Sprintf("%s (#%d)", r.Target, officers[r.OriginalIndex].ID))
		}
		return nil, errors.Wrapf(ErrAmbiguousAssignee, "%q matches %s", ref, strings.Join(candidates, ", "))
	}
	id := officers[ranks[0].OriginalIndex].ID
	return &id, nil
}
