package cmd

import (
	"errors"
	"testing"

	"github.com/yourorg/releasectl/internal/builds"
)

func TestRobotChannelRowsOrdering(t *testing.T) {
	results := []builds.RobotResult{
		{
			Label: "Flex",
			Releases: builds.ReleaseSet{
				Alphas:  []builds.RobotRelease{{Version: "8.4.0-alpha.1", VersionURL: "u1"}},
				Stables: []builds.RobotRelease{{Version: "8.3.0", VersionURL: "u2"}},
			},
		},
		{Label: "OT-2", Err: errors.New("no production entries")},
	}

	rows := robotChannelRows(results)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].Channel != "alpha" || rows[0].Robot != "Flex" {
		t.Fatalf("row 0 = %+v, want Flex alpha first", rows[0])
	}
	if rows[1].Channel != "stable" || rows[1].Version != "8.3.0" {
		t.Fatalf("row 1 = %+v, want Flex stable", rows[1])
	}
	if rows[2].Channel != "ERROR" || rows[2].Robot != "OT-2" {
		t.Fatalf("row 2 = %+v, want OT-2 error last", rows[2])
	}
}
