package admin

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	SchemePath(suffix string) string
	GET(path string, headers map[string]string) error
	DELETE(path string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	Recall(key string) string
}

// keyRegistrationID mirrors where the registration steps remember the last ID.
const keyRegistrationID = "registrationId"

// RegisterSteps registers admin table, export, delete and receipt steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &adminSteps{tc: tc}

	// Table
	ctx.Step(`^I open the admin table$`, steps.openTable)
	ctx.Step(`^I open the admin page$`, steps.openPage)
	ctx.Step(`^the admin table should have (\d+) rows?$`, steps.tableShouldHaveRows)
	ctx.Step(`^the admin table headers should be "([^"]*)"$`, steps.headersShouldBe)

	// Export
	ctx.Step(`^I export the registrations as "(csv|xlsx)"$`, steps.export)
	ctx.Step(`^the CSV should have (\d+) data rows?$`, steps.csvShouldHaveRows)
	ctx.Step(`^the CSV header should start with "([^"]*)"$`, steps.csvHeaderShouldStartWith)

	// Delete and clear
	ctx.Step(`^I delete the last registration$`, steps.deleteLast)
	ctx.Step(`^I delete the last registration confirmed$`, steps.deleteLastConfirmed)
	ctx.Step(`^I delete registration "([^"]*)" confirmed$`, steps.deleteConfirmed)
	ctx.Step(`^I clear all registrations$`, steps.clear)
	ctx.Step(`^I clear all registrations confirmed$`, steps.clearConfirmed)

	// Receipt
	ctx.Step(`^I open the receipt of the last registration$`, steps.openReceipt)
	ctx.Step(`^I open the printable receipt of the last registration$`, steps.openReceiptHTML)
}

type adminSteps struct {
	tc TestContext
}

func (s *adminSteps) openTable(ctx context.Context) error {
	return s.tc.GET(s.tc.SchemePath("/admin"), nil)
}

func (s *adminSteps) openPage(ctx context.Context) error {
	return s.tc.GET(s.tc.SchemePath("/admin"), map[string]string{"Accept": "text/html"})
}

func (s *adminSteps) tableShouldHaveRows(ctx context.Context, n int) error {
	v, err := s.tc.GetResponseField("rows")
	if err != nil {
		return err
	}
	rows, _ := v.([]interface{})
	if len(rows) != n {
		return fmt.Errorf("expected %d admin rows, got %d", n, len(rows))
	}
	return nil
}

func (s *adminSteps) headersShouldBe(ctx context.Context, want string) error {
	v, err := s.tc.GetResponseField("headers")
	if err != nil {
		return err
	}
	list, _ := v.([]interface{})
	got := make([]string, 0, len(list))
	for _, h := range list {
		got = append(got, fmt.Sprint(h))
	}
	if joined := strings.Join(got, ","); joined != want {
		return fmt.Errorf("expected headers %q, got %q", want, joined)
	}
	return nil
}

func (s *adminSteps) export(ctx context.Context, format string) error {
	return s.tc.GET(s.tc.SchemePath("/admin/export."+format), nil)
}

func (s *adminSteps) readCSV() ([][]string, error) {
	records, err := csv.NewReader(strings.NewReader(string(s.tc.GetLastResponseBody()))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("response is not CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header")
	}
	return records, nil
}

func (s *adminSteps) csvShouldHaveRows(ctx context.Context, n int) error {
	records, err := s.readCSV()
	if err != nil {
		return err
	}
	if got := len(records) - 1; got != n {
		return fmt.Errorf("expected %d CSV rows, got %d", n, got)
	}
	return nil
}

func (s *adminSteps) csvHeaderShouldStartWith(ctx context.Context, prefix string) error {
	records, err := s.readCSV()
	if err != nil {
		return err
	}
	if header := strings.Join(records[0], ","); !strings.HasPrefix(header, prefix) {
		return fmt.Errorf("expected CSV header to start with %q, got %q", prefix, header)
	}
	return nil
}

func (s *adminSteps) lastID() (string, error) {
	regID := s.tc.Recall(keyRegistrationID)
	if regID == "" {
		return "", fmt.Errorf("no registration has been accepted in this scenario")
	}
	return regID, nil
}

func (s *adminSteps) deleteLast(ctx context.Context) error {
	regID, err := s.lastID()
	if err != nil {
		return err
	}
	return s.tc.DELETE(s.tc.SchemePath("/registrations/" + regID))
}

func (s *adminSteps) deleteLastConfirmed(ctx context.Context) error {
	regID, err := s.lastID()
	if err != nil {
		return err
	}
	return s.deleteConfirmed(ctx, regID)
}

func (s *adminSteps) deleteConfirmed(ctx context.Context, regID string) error {
	return s.tc.DELETE(s.tc.SchemePath("/registrations/" + regID + "?confirm=true"))
}

func (s *adminSteps) clear(ctx context.Context) error {
	return s.tc.DELETE(s.tc.SchemePath("/registrations"))
}

func (s *adminSteps) clearConfirmed(ctx context.Context) error {
	return s.tc.DELETE(s.tc.SchemePath("/registrations?confirm=true"))
}

func (s *adminSteps) openReceipt(ctx context.Context) error {
	regID, err := s.lastID()
	if err != nil {
		return err
	}
	return s.tc.GET(s.tc.SchemePath("/registrations/"+regID+"/receipt"), nil)
}

func (s *adminSteps) openReceiptHTML(ctx context.Context) error {
	regID, err := s.lastID()
	if err != nil {
		return err
	}
	return s.tc.GET(s.tc.SchemePath("/registrations/"+regID+"/receipt"), map[string]string{"Accept": "text/html"})
}
