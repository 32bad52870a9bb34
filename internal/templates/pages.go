package templates

// NOTE: these blocks would normally live in .templ files compiled by
// `templ generate`. They are kept as html/template so the build does not
// depend on the templ CLI; every block is still exposed as a templ.Component.

var tmpl = parse("intake", pageSrc+formSrc+fieldSrc+slotSrc+toastSrc+confirmationSrc)

const pageSrc = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Form.Title}} · {{.Form.FormID}}</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
<link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Mono:wght@400;500;600&family=IBM+Plex+Sans:wght@300;400;500;600&display=swap" rel="stylesheet">
<style>
  :root{--ink:#0d1117;--paper:#f5f0e8;--ledger:#e8e0cc;--accent:#c0392b;--accent2:#2c6e49;--muted:#6b5e4e;--rule:#b8a898;--info:#1e3a8a;}
  *{box-sizing:border-box;}
  body{background:var(--paper);color:var(--ink);font-family:'IBM Plex Sans',sans-serif;min-height:100vh;margin:0;}
  .mono{font-family:'IBM Plex Mono',monospace;}
  .card{background:rgba(255,255,255,0.7);border:1px solid var(--ledger);border-left:4px solid var(--ink);padding:20px 24px;margin-bottom:20px;}
  .section-header{font-family:'IBM Plex Mono',monospace;font-size:0.7rem;font-weight:600;letter-spacing:0.18em;text-transform:uppercase;color:var(--muted);border-bottom:1px solid var(--rule);padding-bottom:4px;margin-bottom:16px;}
  .field{margin-bottom:14px;}
  .field-label{font-family:'IBM Plex Mono',monospace;font-size:0.65rem;font-weight:600;letter-spacing:0.1em;text-transform:uppercase;color:var(--muted);display:block;margin-bottom:4px;}
  input,select,textarea{background:white;border:1px solid var(--rule);border-bottom:2px solid var(--ink);padding:6px 8px;font-family:'IBM Plex Mono',monospace;font-size:0.85rem;width:100%;outline:none;}
  input:focus,select:focus,textarea:focus{border-bottom-color:var(--accent);}
  input[type=radio]{width:auto;margin-right:6px;}
  .choices{display:flex;gap:20px;flex-wrap:wrap;}
  .dob{display:grid;grid-template-columns:1fr 2fr 1fr;gap:8px;}
  .money{display:flex;align-items:center;gap:6px;}
  .btn{font-family:'IBM Plex Mono',monospace;font-weight:600;font-size:0.8rem;letter-spacing:0.08em;padding:8px 18px;border:2px solid var(--ink);cursor:pointer;text-transform:uppercase;text-decoration:none;display:inline-block;}
  .btn[disabled]{opacity:0.5;cursor:not-allowed;}
  .btn-primary{background:var(--ink);color:white;}
  .btn-primary:hover:not([disabled]){background:var(--accent);border-color:var(--accent);}
  .btn-danger{background:white;color:var(--accent);border-color:var(--accent);}
  .btn-success{background:var(--accent2);color:white;border-color:var(--accent2);}
  .slots{display:grid;grid-template-columns:1fr 1fr;gap:16px;}
  .dropzone{display:block;border:2px dashed var(--rule);padding:24px 12px;text-align:center;cursor:pointer;font-size:0.85rem;}
  .dropzone.over{border-color:var(--accent);background:white;}
  .dropzone small{display:block;color:var(--muted);margin-top:6px;}
  .preview img{max-width:100%;display:block;margin-bottom:6px;border:1px solid var(--ledger);}
  .stamp{display:inline-block;border:3px solid var(--accent2);color:var(--accent2);font-family:'IBM Plex Mono',monospace;font-weight:600;letter-spacing:0.15em;padding:2px 10px;transform:rotate(-2deg);font-size:0.7rem;}
  .ids dt{font-family:'IBM Plex Mono',monospace;font-size:0.65rem;text-transform:uppercase;color:var(--muted);}
  .ids dd{font-family:'IBM Plex Mono',monospace;font-size:1.3rem;font-weight:600;margin:0 0 12px 0;}
  #toasts{position:fixed;top:16px;right:16px;display:flex;flex-direction:column;gap:8px;z-index:10;max-width:360px;}
  .toast{padding:10px 14px;color:white;font-size:0.85rem;box-shadow:0 2px 6px rgba(0,0,0,0.2);}
  .toast-success{background:var(--accent2);}
  .toast-error{background:var(--accent);}
  .toast-info{background:var(--info);}
  .reason{color:var(--accent);font-size:0.8rem;margin-right:12px;}
  .spinner{display:inline-block;width:10px;height:10px;border:2px solid white;border-right-color:transparent;border-radius:50%;animation:spin 0.8s linear infinite;margin-right:6px;}
  @keyframes spin{to{transform:rotate(360deg);}}
  .htmx-indicator{display:none;}
  .htmx-request .htmx-indicator,.htmx-request.htmx-indicator{display:inline-block;}
</style>
</head>
<body>
<div style="max-width:760px;margin:0 auto;padding:32px 24px;">
<div style="display:flex;align-items:flex-start;justify-content:space-between;margin-bottom:28px;">
  <div>
    <div class="mono" style="font-size:0.65rem;letter-spacing:0.2em;color:var(--muted);margin-bottom:4px;">EMERGENCY ASSISTANCE PROGRAM</div>
    <h1 class="mono" style="font-size:1.5rem;font-weight:600;margin:0;">{{.Form.Title}}</h1>
  </div>
  <div class="mono" style="font-size:0.7rem;color:var(--muted);text-align:right;">Form ID<br><strong>{{.Form.FormID}}</strong></div>
</div>
{{template "form" .Form}}
</div>
{{template "toasts" .Toasts}}
<script>
document.addEventListener('dragover', function (e) {
  var z = e.target.closest && e.target.closest('.dropzone');
  if (z) { e.preventDefault(); z.classList.add('over'); }
});
document.addEventListener('dragleave', function (e) {
  var z = e.target.closest && e.target.closest('.dropzone');
  if (z) { z.classList.remove('over'); }
});
document.addEventListener('drop', function (e) {
  var z = e.target.closest && e.target.closest('.dropzone');
  if (!z) { return; }
  e.preventDefault();
  z.classList.remove('over');
  var input = document.getElementById(z.htmlFor);
  if (input && e.dataTransfer.files.length) {
    input.files = e.dataTransfer.files;
    input.dispatchEvent(new Event('change', { bubbles: true }));
  }
});
function scheduleToasts() {
  document.querySelectorAll('#toasts .toast:not([data-timed])').forEach(function (t) {
    t.setAttribute('data-timed', '1');
    setTimeout(function () { t.remove(); }, 5000);
  });
}
document.addEventListener('htmx:afterSettle', scheduleToasts);
document.addEventListener('DOMContentLoaded', scheduleToasts);
</script>
</body>
</html>{{end}}`

const formSrc = `{{define "form"}}<div id="intake">
<form id="intake-form" hx-post="/draft" hx-trigger="change" hx-target="#fields" hx-swap="outerHTML" onsubmit="return false;">
{{template "fields" .}}
</form>
{{if .Slots}}<div class="card">
  <div class="section-header">Identification</div>
  <div class="slots">{{range .Slots}}{{template "slot" .}}{{end}}</div>
</div>{{end}}
<div id="submit-bar" style="display:flex;justify-content:flex-end;align-items:center;">
  {{if .Reason}}<span class="reason">{{.Reason}}</span>{{end}}
  <button type="button" class="btn btn-primary" hx-post="/submit" hx-include="#intake-form" hx-target="#intake" hx-swap="outerHTML" hx-disabled-elt="this"{{if not .SubmitEnabled}} disabled{{end}}>
    <span class="spinner htmx-indicator"></span>{{if .SubmitEnabled}}Submit Application{{else}}Submitting…{{end}}
  </button>
</div>
</div>{{end}}
{{define "fields"}}<div id="fields">
{{range .Sections}}<div class="card">
  <div class="section-header">{{.Title}}</div>
  {{range .Fields}}{{template "field" .}}{{end}}
</div>
{{end}}</div>{{end}}`

const fieldSrc = `{{define "field"}}<div class="field" id="field-{{.Name}}">
{{if eq .Kind "date"}}
  <span class="field-label">{{.Label}}{{if .Required}} *{{end}}</span>
  <div class="dob">
    <input type="number" id="f-dob_day" name="dob_day" min="1" max="31" placeholder="Day" value="{{.Day}}">
    <select id="f-dob_month" name="dob_month">
      <option value="">Month</option>
      {{range .Months}}<option value="{{.Value}}"{{if .Checked}} selected{{end}}>{{.Label}}</option>{{end}}
    </select>
    <input type="number" id="f-dob_year" name="dob_year" min="1900" placeholder="Year" value="{{.Year}}">
  </div>
{{else if eq .Kind "radio" "yesno"}}
  <span class="field-label">{{.Label}}{{if .Required}} *{{end}}</span>
  <div class="choices">
    {{$name := .Name}}{{range .Choices}}<label><input type="radio" id="f-{{$name}}-{{.Value}}" name="{{$name}}" value="{{.Value}}"{{if .Checked}} checked{{end}}>{{.Label}}</label>{{end}}
  </div>
{{else if eq .Kind "select"}}
  <label class="field-label" for="f-{{.Name}}">{{.Label}}{{if .Required}} *{{end}}</label>
  <select id="f-{{.Name}}" name="{{.Name}}">
    <option value="">Select…</option>
    {{range .Choices}}<option value="{{.Value}}"{{if .Checked}} selected{{end}}>{{.Label}}</option>{{end}}
  </select>
{{else if eq .Kind "textarea"}}
  <label class="field-label" for="f-{{.Name}}">{{.Label}}{{if .Required}} *{{end}}</label>
  <textarea id="f-{{.Name}}" name="{{.Name}}" rows="3" placeholder="{{.Placeholder}}">{{.Value}}</textarea>
{{else if eq .Kind "money"}}
  <label class="field-label" for="f-{{.Name}}">{{.Label}}{{if .Required}} *{{end}}</label>
  <div class="money"><span class="mono">$</span><input type="text" inputmode="decimal" id="f-{{.Name}}" name="{{.Name}}" placeholder="{{if .Placeholder}}{{.Placeholder}}{{else}}0.00{{end}}" value="{{.Value}}"></div>
{{else}}
  <label class="field-label" for="f-{{.Name}}">{{.Label}}{{if .Required}} *{{end}}</label>
  <input type="text" id="f-{{.Name}}" name="{{.Name}}" placeholder="{{.Placeholder}}" value="{{.Value}}">
{{end}}
</div>{{end}}`

const slotSrc = `{{define "slot"}}<form id="slot-{{.Side}}" class="slot" hx-post="/attachments/{{.Side}}" hx-encoding="multipart/form-data" hx-trigger="change" hx-target="this" hx-swap="outerHTML">
  <span class="field-label">{{.Label}} *</span>
  {{if .Populated}}<div class="preview">
    <img src="{{.Preview}}" alt="{{.Label}} preview">
    <div class="mono" style="font-size:0.75rem;margin-bottom:6px;">{{.Filename}}</div>
    <button type="button" class="btn btn-danger" hx-delete="/attachments/{{.Side}}" hx-target="#slot-{{.Side}}" hx-swap="outerHTML">Remove</button>
  </div>{{end}}
  <label for="{{.Binding.InputID}}" class="dropzone">
    <span class="spinner htmx-indicator" style="border-color:var(--ink);border-right-color:transparent;"></span>
    {{if .Populated}}Replace image{{else}}Click or drop a photo of the {{.Side}} of your ID{{end}}
    <small>Images only, up to {{bytes .Binding.MaxBytes}}</small>
  </label>
  <input type="file" id="{{.Binding.InputID}}" name="file" accept="{{.Binding.Accept}}" hidden>
</form>{{end}}`

const toastSrc = `{{define "toasts"}}<div id="toasts"{{if .OOB}} hx-swap-oob="beforeend"{{end}}>
{{range .Notes}}<div class="{{toastClass .Level}}" role="status">{{.Message}}</div>{{end}}
</div>{{end}}`

const confirmationSrc = `{{define "confirmation"}}<div id="intake" class="card">
  <div class="stamp">RECEIVED</div>
  <h2 class="mono" style="margin:14px 0 6px 0;">Application submitted</h2>
  <p style="font-size:0.9rem;">Thank you{{if .Applicant}}, {{.Applicant}}{{end}}. Keep these numbers; you will need them if you contact the program office.</p>
  <dl class="ids">
    <dt>Application Number</dt><dd id="application-number">{{.Tracking.ApplicationNumber}}</dd>
    <dt>Ticket Number</dt><dd id="ticket-number">{{.Tracking.TicketNumber}}</dd>
    <dt>Reference Number</dt><dd id="reference-number">{{.Tracking.ReferenceNumber}}</dd>
  </dl>
  <div style="display:flex;gap:12px;">
    <a class="btn btn-success" href="/receipt.pdf">Download Receipt (PDF)</a>
    <button type="button" class="btn btn-danger" hx-post="/restart">Start a New Application</button>
  </div>
</div>{{end}}`
