// example.go — Sample description for gologo init.
package logo

// ExampleJSON returns a starter description. Its layers reference
// assets/ring.png and assets/mark.png, which gologo init writes alongside.
func ExampleJSON() string {
	return `{
  "canvas": {
    "colors": ["#ffffff", "#000000", "#1a1a2e", "rgb(255,0,0)", "#00ff0080"],
    "ratios": [
      { "b": 1, "s": 1 },
      { "b": 3, "s": 2, "dir": { "l": true, "p": true } },
      { "b": 16, "s": 9, "dir": { "l": true } }
    ]
  },
  "icon": {
    "padding": 0.1,
    "layers": [
      {
        "colors": ["#00ffcc", "#ffffff", "rgba(22,33,62,0.8)"],
        "type": "png",
        "path": "assets/ring"
      },
      {
        "colors": ["#e0e0e0", "#ff0000"],
        "type": "png",
        "path": "assets/mark"
      }
    ]
  }
}
`
}
