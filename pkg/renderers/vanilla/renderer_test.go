package vanilla_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/render"
	"github.com/goliatone/go-formcanvas/pkg/renderers/vanilla"
	"github.com/goliatone/go-formcanvas/pkg/testsupport"
)

func contactModel(t *testing.T, extra ...canvas.Element) model.FormModel {
	t.Helper()
	elements := append(testsupport.ContactElements(), extra...)
	form, err := model.NewBuilder().Build(model.Form{ID: "contact", Title: "Contact", Elements: elements})
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	return form
}

func TestCanvasRenderer_PositionsElements(t *testing.T) {
	renderer, err := vanilla.NewCanvas()
	if err != nil {
		t.Fatalf("new canvas renderer: %v", err)
	}
	if renderer.Name() != vanilla.NameCanvas || renderer.Layout() != vanilla.LayoutCanvas {
		t.Fatalf("unexpected renderer identity %s/%s", renderer.Name(), renderer.Layout())
	}

	out, err := renderer.Render(context.Background(), contactModel(t), render.RenderOptions{Selected: []string{"email-1"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	mustContain(t, html,
		`class="fc-form fc-layout-canvas"`,
		`style="width: 600px; height: 570px"`,
		`data-element-id="text-1" style="left: 100px; top: 135px; width: 500px; height: 80px"`,
		`<div class="fc-item fc-item-input is-selected" data-element-id="email-1"`,
		`<h2 class="fc-header">Contact us</h2>`,
		`type="email" id="field-email-1" name="email_address" placeholder="example@domain.com" required`,
		`minlength="2" maxlength="120"`,
		`<option value="Sales">Sales</option>`,
		`<textarea class="fc-control" id="field-textarea-1" name="additional_details"`,
		`<style>`,
	)
	mustNotContain(t, html, `<button type="submit"`)
	assertOrder(t, html, `data-element-id="header-1"`, `data-element-id="text-1"`, `data-element-id="email-1"`, `data-element-id="select-1"`)
}

func TestFormRenderer_FlowsWithValuesAndErrors(t *testing.T) {
	renderer, err := vanilla.New(vanilla.WithSubmitLabel("Send"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	opts := render.RenderOptions{
		Action: "/forms/contact/responses",
		Values: map[string]any{
			"email_address": "ada@example.com",
			"topic":         "Support",
		},
		Errors:     map[string][]string{"full_name": {"Please enter your name"}},
		FormErrors: []string{"Fix the highlighted fields"},
		Selected:   []string{"email-1"},
	}
	out, err := renderer.Render(context.Background(), contactModel(t), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	mustContain(t, html,
		`class="fc-form fc-layout-flow"`,
		`action="/forms/contact/responses"`,
		`<li>Fix the highlighted fields</li>`,
		`<div class="fc-item fc-item-input has-error" data-element-id="text-1">`,
		`aria-invalid="true" aria-describedby="text-1-errors"`,
		`<ul class="fc-errors" id="text-1-errors"><li>Please enter your name</li></ul>`,
		`value="ada@example.com"`,
		`<option value="Support" selected>Support</option>`,
		`<button type="submit" class="fc-submit">Send</button>`,
	)
	mustNotContain(t, html, `left: 100px`, `fc-item-input is-selected`)
}

func TestRenderer_ChoiceWidgets(t *testing.T) {
	form := contactModel(t,
		canvas.Element{
			ID: "radio-1", Type: canvas.TypeRadio, Position: canvas.Point{X: 100, Y: 600}, Size: canvas.SizeFor(canvas.TypeRadio),
			Field: &canvas.FieldProps{Label: "Contact me by", Options: []string{"Email", "Phone"}},
		},
		canvas.Element{
			ID: "checkbox-1", Type: canvas.TypeCheckbox, Position: canvas.Point{X: 100, Y: 725}, Size: canvas.SizeFor(canvas.TypeCheckbox),
			Field: &canvas.FieldProps{Label: "Interests", Options: []string{"News", "Events"}},
		},
		canvas.Element{
			ID: "checkbox-2", Type: canvas.TypeCheckbox, Position: canvas.Point{X: 100, Y: 850}, Size: canvas.SizeFor(canvas.TypeCheckbox),
			Field: &canvas.FieldProps{Label: "Subscribe"},
		},
		canvas.Element{
			ID: "file-1", Type: canvas.TypeFile, Position: canvas.Point{X: 100, Y: 975}, Size: canvas.SizeFor(canvas.TypeFile),
			Field: &canvas.FieldProps{Label: "Attachment"},
		},
	)

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), form, render.RenderOptions{
		Values: map[string]any{
			"interests": []any{"Events"},
			"subscribe": true,
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	mustContain(t, html,
		`fc-item-radio-group`,
		`<input type="radio" name="contact_me_by" value="Phone">`,
		`fc-item-choice-list`,
		`<input type="checkbox" name="interests" value="Events" checked>`,
		`fc-item-toggle`,
		`name="subscribe" value="true" checked>`,
		`type="file" id="field-file-1" name="attachment"`,
		`Drop a file or click to browse`,
	)
}

func TestRenderer_SanitizesBlockContent(t *testing.T) {
	form := contactModel(t, canvas.Element{
		ID: "paragraph-1", Type: canvas.TypeParagraph, Position: canvas.Point{X: 100, Y: 600}, Size: canvas.SizeFor(canvas.TypeParagraph),
		Block: &canvas.BlockProps{Content: `We reply <strong>fast</strong><script>alert(1)</script>`},
	})

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	mustContain(t, string(out), `<p class="fc-paragraph">We reply <strong>fast</strong></p>`)
	mustNotContain(t, string(out), `alert(1)`)
}

func TestRenderer_AppliesThemeConfig(t *testing.T) {
	selector, err := render.DefaultSelector()
	if err != nil {
		t.Fatalf("default selector: %v", err)
	}
	selection, err := selector.Select("paper", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := render.ThemeConfig(selection, vanilla.DefaultPartials())
	cfg.Partials["forms.select"] = "templates/widgets/missing.tpl"

	renderer, err := vanilla.NewCanvas()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), contactModel(t), render.RenderOptions{Theme: cfg})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	mustContain(t, html,
		`<h2 class="fc-header fc-serif">Contact us</h2>`,
		`<link rel="stylesheet" href="/assets/formcanvas.css">`,
		`--accent: #b45309`,
		`data-theme="paper"`,
		`<option value="Sales">Sales</option>`,
	)
	mustNotContain(t, html, `<style>`)
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"templates/page.tpl":          {Data: []byte(`{% for item in items %}[{{ item.html|safe }}]{% endfor %}`)},
		"templates/widgets/input.tpl": {Data: []byte(`{{ field.name }}`)},
	}
	renderer, err := vanilla.New(vanilla.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := model.FormModel{
		FormID: "tiny",
		Fields: []model.Field{{Name: "first", ElementID: "text-1", Type: model.FieldTypeString}},
	}
	out, err := renderer.Render(context.Background(), form, render.RenderOptions{
		Theme: &theme.RendererConfig{Theme: "bare"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "[first]" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderer_HonoursCancelledContext(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, contactModel(t), render.RenderOptions{}); err == nil {
		t.Fatalf("expected cancelled render to fail")
	}
}

func mustContain(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
	if t.Failed() {
		t.Logf("output:\n%s", html)
	}
}

func mustNotContain(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Errorf("output should not contain %q", fragment)
		}
	}
}

func assertOrder(t *testing.T, html string, fragments ...string) {
	t.Helper()
	last := -1
	for _, fragment := range fragments {
		idx := strings.Index(html, fragment)
		if idx <= last {
			t.Fatalf("%q out of order", fragment)
		}
		last = idx
	}
}
