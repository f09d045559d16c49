package extension

import (
  "strings"

  set "github.com/deckarep/golang-set/v2"
)

var extImage = set.NewSet("jpg", "jpeg", "png", "webp")

func IsImage(filename string) bool {
  index := strings.LastIndex(filename, ".")
  if index < 0 || index == len(filename)-1 {
    return false
  }
  ext := strings.ToLower(filename[index+1:])

  return extImage.ContainsOne(ext)
}
