package html

// FindingsReportTemplate renders a static-analysis findings report,
// grouped by rule, in the same dashboard style the teacher's API
// documentation template used.
const FindingsReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Inspequte Findings Report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 40px 20px;
            margin-bottom: 30px;
            border-radius: 8px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
        }

        header h1 {
            font-size: 2.2em;
            margin-bottom: 10px;
        }

        .summary {
            background: white;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 30px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 15px;
            margin-top: 15px;
        }

        .stat-card {
            background: #f8f9fa;
            padding: 15px;
            border-radius: 6px;
            border-left: 4px solid #667eea;
        }

        .stat-card .label {
            font-size: 0.9em;
            color: #6c757d;
            margin-bottom: 5px;
        }

        .stat-card .value {
            font-size: 1.8em;
            font-weight: bold;
            color: #2c3e50;
        }

        .rule-section {
            background: white;
            margin-bottom: 20px;
            border-radius: 8px;
            overflow: hidden;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .rule-header {
            padding: 20px;
            background: #f8f9fa;
            border-bottom: 1px solid #e9ecef;
        }

        .rule-id {
            font-family: 'Courier New', monospace;
            font-size: 1.2em;
            font-weight: 700;
            color: #2c3e50;
        }

        .rule-name {
            color: #495057;
            margin-top: 4px;
        }

        .rule-description {
            color: #6c757d;
            font-size: 0.9em;
            margin-top: 6px;
        }

        table {
            width: 100%;
            border-collapse: collapse;
        }

        th {
            background: #f8f9fa;
            padding: 10px 12px;
            text-align: left;
            font-weight: 600;
            color: #495057;
            border-bottom: 2px solid #dee2e6;
        }

        td {
            padding: 10px 12px;
            border-bottom: 1px solid #e9ecef;
            vertical-align: top;
        }

        tr:hover {
            background: #f8f9fa;
        }

        .location {
            font-family: 'Courier New', monospace;
            color: #667eea;
        }

        .kind-badge {
            display: inline-block;
            padding: 2px 8px;
            border-radius: 3px;
            font-size: 0.75em;
            font-weight: 600;
        }

        .kind-type { background: #e7f3ff; color: #0066cc; }
        .kind-function { background: #fff3e0; color: #b26a00; }

        .artifact {
            font-family: 'Courier New', monospace;
            color: #6c757d;
            font-size: 0.9em;
        }

        footer {
            text-align: center;
            padding: 30px 20px;
            color: #6c757d;
        }

        .no-findings {
            text-align: center;
            padding: 60px 20px;
            color: #6c757d;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Inspequte Findings Report</h1>
        </header>

        <div class="summary">
            <h2>Overview</h2>
            <div class="stats">
                <div class="stat-card">
                    <div class="label">Target Classes</div>
                    <div class="value">{{.TargetClassCount}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Total Classes Loaded</div>
                    <div class="value">{{.TotalClassCount}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Total Findings</div>
                    <div class="value">{{.TotalFindings}}</div>
                </div>
            </div>
        </div>

        {{if .Sections}}
            {{range .Sections}}
            <div class="rule-section">
                <div class="rule-header">
                    <div class="rule-id">{{.RuleID}}</div>
                    <div class="rule-name">{{.RuleName}}</div>
                    {{if .Description}}<div class="rule-description">{{.Description}}</div>{{end}}
                </div>
                <table>
                    <thead>
                        <tr>
                            <th>Kind</th>
                            <th>Location</th>
                            <th>Line</th>
                            <th>Artifact</th>
                            <th>Message</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Findings}}
                        <tr>
                            <td><span class="kind-badge {{kindBadge .Kind}}">{{.Kind}}</span></td>
                            <td class="location">{{.Location}}</td>
                            <td>{{if gt .Line 0}}{{.Line}}{{end}}</td>
                            <td class="artifact">{{.ArtifactURI}}</td>
                            <td>{{.Message}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
        {{else}}
            <div class="no-findings">
                <h3>No findings</h3>
            </div>
        {{end}}

        <footer>
            <p>Generated by Inspequte</p>
        </footer>
    </div>
</body>
</html>
`
