// Package bridge serves the discovered keywords over the MCP protocol.
//
// Each keyword becomes one MCP tool with an input schema derived from its
// argument specification, and three meta tools (list_keywords,
// describe_keyword, run_keyword) cover discovery-independent access. All
// dispatch goes through the same keyword router the test framework uses.
package bridge
