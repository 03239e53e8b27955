package config

var DefaultConfig = Config{Langs: map[string]Lang{
	"go": {
		Patterns: `^func\s+(Test\w+)\s*\(
^func\s+(Benchmark\w+)\s*\(
^func\s+(Example\w+)\s*\(`,
		Cmd:         "go test -timeout 30s -run ^%s$ -test.v %d",
		DebugCmd:    "dlv test %d -- -test.run ^%s$",
		CoverageCmd: "go test -run ^%s$ -cover %d",
		RootMarkers: "go.mod go.sum .git",
		TestFile:    "*_test.go",
	},
	"python": {
		Patterns: `^\s*def\s+(test_\w+)
^\s*async\s+def\s+(test_\w+)`,
		Cmd:         "python3 -m pytest %f::%s",
		DebugCmd:    "python3 -m pdb -m pytest %f::%s",
		CoverageCmd: "python3 -m pytest --cov %f::%s",
		RootMarkers: "pyproject.toml setup.py requirements.txt .git",
		TestFile:    "test_*.py *_test.py",
	},
	"javascript": {
		Patterns:    "^\\s*(?:it|test)\\s*\\(\\s*[\"'`](.+?)[\"'`]",
		Cmd:         "npx jest %f -t %s",
		DebugCmd:    "node --inspect-brk node_modules/.bin/jest %f -t %s",
		CoverageCmd: "npx jest --coverage %f -t %s",
		RootMarkers: "package.json .git",
		TestFile:    "*.test.js *.spec.js",
	},
	"typescript": {
		Patterns:    "^\\s*(?:it|test)\\s*\\(\\s*[\"'`](.+?)[\"'`]",
		Cmd:         "npx vitest run %f -t %s",
		CoverageCmd: "npx vitest run --coverage %f -t %s",
		RootMarkers: "package.json tsconfig.json .git",
		TestFile:    "*.test.ts *.spec.ts",
	},
	"java": {
		Patterns:    `^\s*(?:public\s+)?void\s+(test\w+)\s*\(`,
		Cmd:         "mvn test -Dtest=*#%s",
		RootMarkers: "pom.xml build.gradle .git",
		TestFile:    "*Test.java Test*.java",
	},
	"rust": {
		Patterns: `^\s*(?:pub\s+)?(?:async\s+)?fn\s+(test_\w+)`,
		Cmd:         "cargo test %s",
		RootMarkers: "Cargo.toml .git",
		TestFile:    "*.rs",
	},
	"zig": {
		Patterns:    `^\s*test\s+"(.+?)"`,
		Cmd:         "zig test %F",
		RootMarkers: "build.zig .git",
		TestFile:    "*.zig",
	},
}}
