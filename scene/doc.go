// Package scene is the retained object model of an annotation session.
//
// A Scene is an ordered list of Objects drawn in painter's order over a fixed
// 500×500 canvas: an optional BackgroundImage first, then user-added Shapes
// and Text in the order they were added. The model is independent of any
// rendering backend; surfaces draw a Scene but never own it.
//
// Object is a closed variant. New kinds are added by extending the set of
// concrete types in this package and the switch in each renderer.
//
// Example:
//
//	sc := scene.New()
//	sc.SetBackgroundImage(scene.NewBackgroundImage(url, img, sc.Width(), sc.Height()))
//	circle, _ := scene.NewShape(scene.Circle)
//	_ = sc.Append(circle)
//	for info := range sc.Inspect() {
//		fmt.Println(info.Type, info.Left, info.Top)
//	}
package scene
