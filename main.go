// Command go-classify classifies a single image file with an ONNX model and
// prints the prediction. It is a development harness for the library; the
// real consumer is an interactive host feeding picker images through the
// classify.Dispatcher.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/leaf-ai/go-classify/classify"
	"github.com/leaf-ai/go-classify/images"
	"github.com/leaf-ai/go-classify/inference"
	"github.com/leaf-ai/go-classify/logging"
	"github.com/leaf-ai/go-classify/util"
)

func main() {
	var (
		modelPath   string
		labelsPath  string
		imagePath   string
		libraryPath string
		inputSize   int
		orientation int
		softmax     bool
		warmup      int
	)
	flag.StringVar(&modelPath, "model", "model.onnx", "Path to the ONNX classification model")
	flag.StringVar(&labelsPath, "labels", "labels.txt", "Path to the label file, one class per line")
	flag.StringVar(&imagePath, "image", "", "Path to the image file to classify (.jpg, .png, .webp)")
	flag.StringVar(&libraryPath, "ort-library", "", "Path to the ONNX Runtime shared library (optional)")
	flag.IntVar(&inputSize, "input-size", inference.DefaultInputSize, "Model input edge length")
	flag.IntVar(&orientation, "orientation", int(images.OrientationUpright), "EXIF orientation tag of the image (1-8)")
	flag.BoolVar(&softmax, "softmax", false, "Apply softmax to raw model logits")
	flag.IntVar(&warmup, "warmup", 1, "Warmup inference runs after load")
	flag.Parse()

	if imagePath == "" {
		log.Fatal("missing required -image flag")
	}

	logger, err := logging.NewLogger()
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	engine, err := inference.Load(inference.Config{
		ModelPath:    modelPath,
		LabelsPath:   labelsPath,
		InputSize:    inputSize,
		LibraryPath:  libraryPath,
		ApplySoftmax: softmax,
		Warmup:       warmup,
	})
	if err != nil {
		// A load failure is fatal for this one-shot tool, but the library
		// itself leaves that decision to the host.
		log.Fatalf("loading model: %v", err)
	}
	defer engine.Close()

	pipeline, err := classify.NewPipeline(engine, classify.Config{Logger: logger})
	if err != nil {
		log.Fatalf("building pipeline: %v", err)
	}

	file, err := util.LoadImageFile(imagePath)
	if err != nil {
		log.Fatalf("reading image: %v", err)
	}
	img, err := images.Decode(file.Data, file.Format, images.Orientation(orientation))
	if err != nil {
		log.Fatalf("decoding image: %v", err)
	}

	outcome := pipeline.Classify(context.Background(), img)
	fmt.Println(outcome.Message())
}
