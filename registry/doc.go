// Package registry provides a named object registry: an explicit
// name -> value table passed by reference, never process-global state.
//
//	models := registry.New[ModelFactory]("model")
//	err := models.Register("resnet50", newResNet50)
//	factory, err := models.Get("resnet50")
package registry
