package workflowfile

import (
	"os"
	"testing"

	"github.com/dfm/yawms/pkg/testutil"
)

func TestMain(m *testing.M) {
	restore := testutil.DiscardLogs()
	code := m.Run()
	restore()
	os.Exit(code)
}
