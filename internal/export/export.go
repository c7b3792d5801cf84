// Package export renders stored mockup fragments as standalone HTML
// documents. Output is deterministic for identical input.
package export

import (
	"fmt"
	"regexp"
	"strings"
)

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <script src="https://cdn.tailwindcss.com"></script>
  <link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700;800;900&display=swap" rel="stylesheet">
</head>
<body>
%s
</body>
</html>`

const previewTemplate = `<!DOCTYPE html>
<html class="light" lang="en">
<head>
  <meta charset="utf-8"/>
  <meta content="width=device-width, initial-scale=1.0" name="viewport"/>
  <title>Mockup Preview</title>
  <script src="https://cdn.tailwindcss.com?plugins=forms,container-queries"></script>
  <link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700;800;900&display=swap" rel="stylesheet"/>
  <link href="https://fonts.googleapis.com/css2?family=Plus+Jakarta+Sans:wght@400;500;600;700;800&display=swap" rel="stylesheet"/>
  <link href="https://fonts.googleapis.com/css2?family=Material+Symbols+Outlined:wght,FILL@100..700,0..1&display=swap" rel="stylesheet"/>
  <script>
    tailwind.config = {
      darkMode: "class",
      theme: {
        extend: {
          colors: {
            "primary": "#135bec",
            "background-light": "#f6f6f8",
            "background-dark": "#101622",
          },
          fontFamily: {
            "display": ["Inter", "sans-serif"],
            "sans": ["Inter", "system-ui", "sans-serif"]
          },
          borderRadius: {
            "DEFAULT": "0.25rem",
            "lg": "0.5rem",
            "xl": "0.75rem",
            "2xl": "1rem",
            "3xl": "1.5rem",
            "full": "9999px"
          },
        },
      },
    }
  </script>
  <style>
    body {
      font-family: 'Inter', system-ui, sans-serif;
      margin: 0;
      padding: 0;
    }
    .material-symbols-outlined {
      font-variation-settings: 'FILL' 0, 'wght' 400, 'GRAD' 0, 'opsz' 24;
    }
    img { max-width: 100%%; height: auto; }
  </style>
</head>
<body class="bg-background-light dark:bg-background-dark text-[#0d121b] dark:text-slate-100 antialiased">
%s
</body>
</html>`

// BuildDocument wraps a fragment in a minimal downloadable document.
func BuildDocument(title, html string) string {
	return fmt.Sprintf(documentTemplate, title, html)
}

// BuildPreviewDocument wraps a fragment in the full preview shell with
// the product design tokens loaded.
func BuildPreviewDocument(html string) string {
	return fmt.Sprintf(previewTemplate, html)
}

var fileNameSeparators = regexp.MustCompile(`\s+`)

// FileName derives the download file name from a mockup label.
func FileName(label string) string {
	name := strings.ToLower(strings.TrimSpace(label))
	name = fileNameSeparators.ReplaceAllString(name, "-")
	if name == "" {
		name = "mockup"
	}
	return name + ".html"
}
