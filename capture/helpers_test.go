package capture

import (
	"os"
	"testing"
)

func requireBrowser(t *testing.T) {
	t.Helper()
	if os.Getenv("UXREFACTOR_BROWSER") != "1" {
		t.Skip("set UXREFACTOR_BROWSER=1 to run against a real Chrome")
	}
}
