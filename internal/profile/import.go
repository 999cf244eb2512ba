package profile

import (
	"fmt"
	"strings"
	"time"
)

// Prepare readies an incoming record for storage: it assigns an id when
// missing, checks field domains and completeness and stamps timestamps.
func Prepare(p *Profile, now time.Time) error {
	if p == nil {
		return fmt.Errorf("profile is required")
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = NewID()
	}
	if err := Validate(p); err != nil {
		return err
	}
	if missing := MissingSections(p); len(missing) > 0 {
		return fmt.Errorf("profile %s is incomplete: missing %s", p.ID, strings.Join(missing, ", "))
	}
	p.Touch(now)
	return nil
}
