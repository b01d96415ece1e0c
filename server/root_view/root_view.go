package root_view

import (
	"context"
	"html/template"
	"time"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/server/fastview"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/server/scene_views"

	channerics "github.com/niceyeti/channerics/channels"
)

// batchRate is the window within which updates to the same element are merged.
const batchRate = time.Millisecond * 20

// RootView is the main page's index.html, which is the container for all the
// view components, the wiring for their channels, etc.
type RootView struct {
	views   []fastview.ViewComponent
	updates <-chan []fastview.EleUpdate
}

// NewRootView creates the main page and the views it contains. Every frame sent on
// @frames is converted once and broadcast to each view.
func NewRootView(
	ctx context.Context,
	frames <-chan models.Frame,
) (*RootView, error) {
	views, err := fastview.NewViewBuilder[models.Frame, scene_views.ViewFrame]().
		WithContext(ctx).
		WithModel(frames, scene_views.Convert).
		WithView(func(
			done <-chan struct{},
			viewFrames <-chan scene_views.ViewFrame) fastview.ViewComponent {
			return scene_views.NewSceneView(done, viewFrames)
		}).
		WithView(func(
			done <-chan struct{},
			viewFrames <-chan scene_views.ViewFrame) fastview.ViewComponent {
			return scene_views.NewCaptionView(done, viewFrames)
		}).
		Build()
	if err != nil {
		return nil, err
	}

	return &RootView{
		views:   views,
		updates: fanIn(ctx.Done(), views),
	}, nil
}

// Updates returns the main ele-update channel for all the views.
func (rv *RootView) Updates() <-chan []fastview.EleUpdate {
	return rv.updates
}

// Parse builds the main page's template, with websocket bootstrap code, and returns its name.
// The template executes against a scene_views.ViewFrame.
func (rv *RootView) Parse(
	parent *template.Template,
) (name string, err error) {
	viewTemplates := []string{}
	for _, vc := range rv.views {
		tname, parseErr := vc.Parse(parent)
		if parseErr != nil {
			err = parseErr
			return
		}
		viewTemplates = append(viewTemplates, tname)
	}

	var bodySpec string
	for _, tname := range viewTemplates {
		bodySpec += `{{ template "` + tname + `" . }}`
	}

	// The main template bootstraps the rest: sets up client websocket and updates, aggregates views.
	name = "mainpage"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html>
		<head>
			<title>{{ .Title }}</title>
			<link rel="icon" href="data:,">
			<script>
				const ws = new WebSocket("ws://" + location.host + "/ws");
				ws.onopen = function (event) {
					console.log("Web socket opened")
				};

				ws.onerror = function (event) {
					console.log('WebSocket error: ', event);
				};

				// Apply each pushed update to the element with its id.
				ws.onmessage = function (event) {
					const items = JSON.parse(event.data)
					if (!items) {
						return
					}
					for (const update of items) {
						const ele = document.getElementById(update.EleId)
						if (!ele) {
							continue
						}
						for (const op of update.Ops) {
							if (op.Key === "textContent") {
								ele.textContent = op.Value;
							} else {
								ele.setAttribute(op.Key, op.Value)
							}
						}
					}
				}
			</script>
		</head>
		<body style="display: flex; gap: 24px; margin: 16px;">
		` + bodySpec + `
		</body></html>
	{{ end }}
	`

	_, err = parent.Parse(indexTemplate)
	return
}

// fanIn aggregates the views' ele-update channels into a single batched channel.
func fanIn(
	done <-chan struct{},
	views []fastview.ViewComponent,
) <-chan []fastview.EleUpdate {
	inputs := make([]<-chan []fastview.EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return batchify(
		done,
		channerics.Merge(done, inputs...),
		batchRate)
}

// batchify batches within the passed time frame before sending, over-writing previously
// received values for the same ele-id, so only the latest values are sent.
// Whatever remains batched when the source closes is sent before the output closes.
func batchify(
	done <-chan struct{},
	source <-chan []fastview.EleUpdate,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		data := map[string]fastview.EleUpdate{}
		last := time.Now()
		send := func() bool {
			select {
			case output <- slicedVals(data):
				data = map[string]fastview.EleUpdate{}
				last = time.Now()
				return true
			case <-done:
				return false
			}
		}

		for updates := range channerics.OrDone(done, source) {
			for _, update := range updates {
				data[update.EleId] = update
			}

			if time.Since(last) > rate && len(data) > 0 {
				if !send() {
					return
				}
			}
		}

		if len(data) > 0 {
			send()
		}
	}()

	return output
}

// returns the values of a map as a slice
func slicedVals[T1 comparable, T2 any](mp map[T1]T2) (sliced []T2) {
	for _, v := range mp {
		sliced = append(sliced, v)
	}
	return
}
