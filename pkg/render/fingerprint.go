package render

import (
	"fmt"

	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
)

// Fingerprint is a short stable identifier of a plan, derived from its canonical key. Plans that only
// differ in where modules are placed share a fingerprint.
func Fingerprint(solution planner.Solution) (string, error) {
	hash, err := hashstructure.Hash(solution.Key(), nil)
	if err != nil {
		return "", errors.Wrap(err, "cannot hash plan")
	}
	return fmt.Sprintf("%016x", hash), nil
}
