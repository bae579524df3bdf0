package mcpserver

import "github.com/starford/exvids/internal/videoref"

// URLFormatURI is the resource URI under which URLFormat is published.
const URLFormatURI = "exvids://url-format"

// URLFormat describes which links the catalog accepts, so clients can check
// their input before calling add_video.
const URLFormat = `# Accepted video links

Only YouTube watch links of this exact shape are accepted:

    ` + videoref.Example + `

Rules:

1. The scheme must be ` + "`" + videoref.Scheme + "`" + ` and the host exactly ` + "`" + videoref.Host + "`" + `.
   Short links (youtu.be), mobile hosts and explicit ports are rejected.
2. The path must be exactly ` + "`" + videoref.WatchPath + "`" + `, with no trailing slash.
   A ";params" suffix on it is ignored, and so is the #fragment.
3. The query must be a list of key=value pairs joined by '&'. Empty pairs
   and pairs without '=' make the link malformed. Percent escapes that do
   not decode are kept as written.
4. The query must carry a non-empty ` + "`" + videoref.ParamKey + "`" + ` value. When it appears
   several times the first non-empty value is the video identifier.

Each identifier can only be stored once. Adding a second link with the same
identifier fails even when the links differ in other parameters.

Rejections carry one of these reasons:

- not_expected_host
- missing_query
- malformed_query
- missing_identifier_parameter
`
