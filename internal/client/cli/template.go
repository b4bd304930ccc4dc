package cli

const historyItemTemplate = `
[{{.Time.Format "2006-01-02 15:04:05"}}] {{.Kind}}
  Input:  {{truncate .Input 80}}
  Output: {{truncate .Output 80}}
{{- range $key, $value := .Metadata }}
  {{$key}}: {{$value}}
{{- end}}
`
