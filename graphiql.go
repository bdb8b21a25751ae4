package library

import (
	"io"
	"text/template"
)

// PlaygroundConfig contains the settings for rendering the playground UI
type PlaygroundConfig struct {
	Endpoint string `json:"endpoint"`
}

func writePlayground(w io.Writer, config PlaygroundConfig) error {
	return playgroundTemplate.Execute(w, config)
}

var playgroundTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>GraphQL Playground</title>
	<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css" />
	<script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
</head>
<body>
	<div id="root"></div>
	<script type="text/javascript">
		window.addEventListener('load', function () {
			GraphQLPlayground.init(document.getElementById('root'), {
				endpoint: {{.Endpoint | printf "%q"}},
			})
		})
	</script>
</body>
</html>
`))
